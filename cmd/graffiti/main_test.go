package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/graffiti/internal/config"
	gerrors "github.com/verte-zerg/graffiti/internal/errors"
	"github.com/verte-zerg/graffiti/internal/model"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Charset: "extended", Window: "inclusive", MinCommits: 1, MaxCommits: 2}
	if err := validateConfig(base); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(*model.Config){
		"min zero":     func(c *model.Config) { c.MinCommits = 0 },
		"min over max": func(c *model.Config) { c.MinCommits = 3 },
		"charset":      func(c *model.Config) { c.Charset = "emoji" },
		"window":       func(c *model.Config) { c.Window = "weekly" },
		"weeks back":   func(c *model.Config) { c.WeeksBack = -1 },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestResolveAnchor(t *testing.T) {
	start := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	got := resolveAnchor(model.Config{Start: &start, WeeksBack: 51}, time.Now())
	want := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	now := time.Date(2024, time.March, 13, 8, 30, 0, 0, time.UTC)
	got = resolveAnchor(model.Config{WeeksBack: 2}, now)
	want = time.Date(2024, time.February, 25, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	p := cfg.Paint
	if p.MinCommits == nil || *p.MinCommits != defaultMinCommits {
		t.Fatalf("unexpected min-commits %v", p.MinCommits)
	}
	if p.Charset == nil || *p.Charset != defaultCharset {
		t.Fatalf("unexpected charset %v", p.Charset)
	}
	if p.History == nil || !*p.History {
		t.Fatalf("expected history enabled")
	}
}

func TestPreviewCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "preview", "HI")
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 rows, got %d: %q", len(lines), out)
	}
	if lines[3] != " ####    #" {
		t.Fatalf("unexpected middle row %q", lines[3])
	}
}

func TestConfigFileOverlayAndFlagPrecedence(t *testing.T) {
	dir := isolateXDG(t)
	path := filepath.Join(dir, "config", "graffiti", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("[paint]\ncharset = \"alpha\"\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	_, err := execute(t, "preview", "!")
	if !gerrors.Is(err, gerrors.ErrInvalidMessage) {
		t.Fatalf("expected alpha charset from config to reject message, got %v", err)
	}
	if _, err := execute(t, "preview", "--charset", "extended", "!"); err != nil {
		t.Fatalf("expected flag to override config, got %v", err)
	}
}

func TestGlyphsCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "glyphs", "--charset", "alpha")
	if err != nil {
		t.Fatalf("glyphs failed: %v", err)
	}
	names := []string{"' '"}
	for ch := 'A'; ch <= 'Z'; ch++ {
		names = append(names, "'"+string(ch)+"'")
	}
	if want := strings.Join(names, " ") + "\n"; out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestPaintRejectsRangeBeforeCommitting(t *testing.T) {
	isolateXDG(t)
	_, err := execute(t, "--min-commits", "5", "--max-commits", "2", "HI")
	var rangeErr *gerrors.RangeError
	if !gerrors.As(err, &rangeErr) {
		t.Fatalf("expected range error, got %v", err)
	}
	if rangeErr.Min != 5 || rangeErr.Max != 2 {
		t.Fatalf("unexpected range error %+v", rangeErr)
	}
}

func TestDryRunRecordsHistory(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "--dry-run", "--no-tui", "--seed", "7", "-c", "1", "-C", "2", "HI")
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	for _, want := range []string{"Starting on ", "Ending on ", "days painted", "100%", "Dry run: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}

	out, err = execute(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, `"HI"`) || !strings.Contains(out, "completed (dry run)") {
		t.Fatalf("unexpected history output %q", out)
	}
}

// recordingExecutor answers every git call successfully and keeps its arguments.
type recordingExecutor struct {
	commands []string
}

func (r *recordingExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	_, err := r.ExecuteWithOutput(ctx, cmd)
	return err
}

func (r *recordingExecutor) ExecuteWithOutput(_ context.Context, cmd *exec.Cmd) (string, error) {
	r.commands = append(r.commands, strings.Join(cmd.Args[1:], " "))
	return "true\n", nil
}

func paintConfig(t *testing.T, message string) model.Config {
	t.Helper()
	seed := int64(3)
	return model.Config{
		Message:    message,
		MinCommits: 1,
		MaxCommits: 1,
		WeeksBack:  51,
		Charset:    "extended",
		Window:     "inclusive",
		Repo:       t.TempDir(),
		Seed:       &seed,
		NoTUI:      true,
	}
}

func TestPaintRejectsUnsupportedMessageBeforeGit(t *testing.T) {
	isolateXDG(t)
	cases := map[string]string{
		"extended": "\x01\x02\u00e9",
		"alpha":    "1234!?",
	}
	for charset, message := range cases {
		cfg := paintConfig(t, message)
		cfg.Charset = charset
		executor := &recordingExecutor{}
		var out bytes.Buffer
		err := paint(context.Background(), &out, cfg, executor)
		if !gerrors.Is(err, gerrors.ErrInvalidMessage) {
			t.Fatalf("%s: expected ErrInvalidMessage, got %v", charset, err)
		}
		if len(executor.commands) != 0 {
			t.Fatalf("%s: expected no git calls, got %v", charset, executor.commands)
		}
		if out.Len() != 0 {
			t.Fatalf("%s: expected no output, got %q", charset, out.String())
		}
	}
}

func TestPaintChecksRepositoryThenCommits(t *testing.T) {
	isolateXDG(t)
	cfg := paintConfig(t, "I")
	lay, err := buildLayout(cfg, time.Now())
	if err != nil {
		t.Fatalf("buildLayout failed: %v", err)
	}
	onDays := 0
	for _, d := range lay.days {
		if d.On {
			onDays++
		}
	}

	executor := &recordingExecutor{}
	var out bytes.Buffer
	if err := paint(context.Background(), &out, cfg, executor); err != nil {
		t.Fatalf("paint failed: %v", err)
	}
	if len(executor.commands) != onDays+1 {
		t.Fatalf("expected %d git calls, got %d", onDays+1, len(executor.commands))
	}
	if want := "-C " + cfg.Repo + " rev-parse --is-inside-work-tree"; executor.commands[0] != want {
		t.Fatalf("expected repository check first, got %q", executor.commands[0])
	}
	for _, c := range executor.commands[1:] {
		if !strings.HasPrefix(c, "-C "+cfg.Repo+" commit --allow-empty --date=") {
			t.Fatalf("unexpected commit command %q", c)
		}
	}
	if want := fmt.Sprintf("Created %d commits across %d days", onDays, onDays); !strings.Contains(out.String(), want) {
		t.Fatalf("output missing %q: %q", want, out.String())
	}
}

func TestMessageNamingSubcommandAfterDoubleDash(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "--preview", "--", "history")
	if err != nil {
		t.Fatalf("preview of subcommand name failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 7 {
		t.Fatalf("expected 7 preview rows, got %q", out)
	}

	out, err = execute(t, "--dry-run", "--no-tui", "--no-history", "-c", "1", "-C", "1", "--", "config", "glyphs")
	if err != nil {
		t.Fatalf("dry run of subcommand names failed: %v", err)
	}
	if !strings.Contains(out, "Dry run: ") {
		t.Fatalf("expected a paint run, got %q", out)
	}
}
