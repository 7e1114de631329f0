package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	gerrors "github.com/verte-zerg/graffiti/internal/errors"
)

// TimestampLayout formats commit dates and labels.
const TimestampLayout = "2006-01-02 15:04:05"

// Committer creates one empty commit dated at when.
type Committer interface {
	Commit(ctx context.Context, when time.Time, label string) error
}

// FormatTimestamp renders when in TimestampLayout.
func FormatTimestamp(when time.Time) string {
	return when.Format(TimestampLayout)
}

// GitCommitter runs `git commit --allow-empty` in a repository.
type GitCommitter struct {
	repo     string
	executor CommandExecutor
}

// NewGitCommitterWithExecutor returns a GitCommitter for repo that runs git
// through executor. An empty repo runs git in the current directory.
func NewGitCommitterWithExecutor(repo string, executor CommandExecutor) *GitCommitter {
	return &GitCommitter{repo: repo, executor: executor}
}

// Commit implements Committer.
func (g *GitCommitter) Commit(ctx context.Context, when time.Time, label string) error {
	stamp := FormatTimestamp(when)
	cmd := g.command(ctx, "commit", "--allow-empty", "--date="+stamp, "--message", label)
	return g.executor.Execute(ctx, cmd)
}

// IsRepository reports whether the committer's directory is inside a git work tree.
func (g *GitCommitter) IsRepository(ctx context.Context) (bool, error) {
	out, err := g.executor.ExecuteWithOutput(ctx, g.command(ctx, "rev-parse", "--is-inside-work-tree"))
	if err != nil {
		var gitErr *gerrors.GitError
		if gerrors.As(err, &gitErr) {
			var exitErr *exec.ExitError
			// Exit code 128 is git's fatal error, here meaning "not a repository".
			if gerrors.As(gitErr.Err, &exitErr) && exitErr.ExitCode() == 128 {
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to check repository: %w", err)
	}
	return strings.TrimSpace(out) == "true", nil
}

func (g *GitCommitter) command(ctx context.Context, args ...string) *exec.Cmd {
	if g.repo != "" {
		args = append([]string{"-C", g.repo}, args...)
	}
	return exec.CommandContext(ctx, "git", args...)
}

// DryRunCommitter counts commits without creating them.
type DryRunCommitter struct {
	Count int
}

// Commit implements Committer.
func (d *DryRunCommitter) Commit(ctx context.Context, _ time.Time, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.Count++
	return nil
}
