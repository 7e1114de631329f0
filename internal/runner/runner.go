// Package runner walks a commit plan and creates the commits it asks for.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/graffiti/internal/calendar"
	gerrors "github.com/verte-zerg/graffiti/internal/errors"
	"github.com/verte-zerg/graffiti/internal/git"
	"github.com/verte-zerg/graffiti/internal/logger"
	"github.com/verte-zerg/graffiti/internal/schedule"
)

// Step describes one processed day for progress displays.
type Step struct {
	Progress schedule.Progress
	Day      calendar.Day
	// Commits is zero on off days.
	Commits int
}

// Reporter receives one Step per processed day, in calendar order.
type Reporter interface {
	Report(step Step)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Step)

// Report implements Reporter.
func (f ReporterFunc) Report(step Step) {
	f(step)
}

// Recorder persists the commits created for a day.
type Recorder interface {
	RecordDay(ctx context.Context, date time.Time, commits int) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, date time.Time, commits int) error

// RecordDay implements Recorder.
func (f RecorderFunc) RecordDay(ctx context.Context, date time.Time, commits int) error {
	return f(ctx, date, commits)
}

// Result summarizes a walk.
type Result struct {
	Days    int
	OnDays  int
	Commits int
}

// Runner drives a Committer from a schedule.Plan.
type Runner struct {
	committer git.Committer
	reporter  Reporter
	recorder  Recorder
	log       *slog.Logger
	delay     time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(rn *Runner) { rn.reporter = r }
}

// WithRecorder sets the history recorder.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) { rn.log = l }
}

// WithDayDelay pauses after each day. Dry runs use it so progress stays visible.
func WithDayDelay(d time.Duration) Option {
	return func(rn *Runner) { rn.delay = d }
}

// New returns a Runner that creates commits with committer.
func New(committer git.Committer, opts ...Option) *Runner {
	r := &Runner{committer: committer, log: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes plan. Commits for a day share the day's timestamp, which is
// also their message. The first failed commit aborts the walk; commits
// already created are kept. Cancellation is returned as ctx.Err().
func (r *Runner) Run(ctx context.Context, plan *schedule.Plan) (Result, error) {
	var result Result
	for plan.Next() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		day := plan.Day()
		result.Days++

		commits := 0
		if entry, ok := plan.Entry(); ok {
			label := git.FormatTimestamp(entry.Date())
			for i := 0; i < entry.Count; i++ {
				if err := r.committer.Commit(ctx, entry.Date(), label); err != nil {
					// A canceled walk kills git mid-commit; that is not a commit failure.
					if cerr := ctx.Err(); cerr != nil {
						return result, cerr
					}
					return result, &gerrors.CommitError{Date: entry.Date(), Unit: i, Err: err}
				}
				commits++
				result.Commits++
			}
			result.OnDays++
			r.log.Debug("committed day", "date", label, "commits", commits)
			if r.recorder != nil {
				if err := r.recorder.RecordDay(ctx, entry.Date(), commits); err != nil {
					r.log.Warn("failed to record day", "date", label, "err", err)
				}
			}
		}

		if r.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.delay):
			}
		}
		if r.reporter != nil {
			r.reporter.Report(Step{Progress: plan.Progress(), Day: day, Commits: commits})
		}
	}
	return result, nil
}
