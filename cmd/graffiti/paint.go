package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/verte-zerg/graffiti/internal/calendar"
	"github.com/verte-zerg/graffiti/internal/config"
	"github.com/verte-zerg/graffiti/internal/generator"
	"github.com/verte-zerg/graffiti/internal/git"
	"github.com/verte-zerg/graffiti/internal/glyph"
	"github.com/verte-zerg/graffiti/internal/logger"
	"github.com/verte-zerg/graffiti/internal/model"
	"github.com/verte-zerg/graffiti/internal/render"
	"github.com/verte-zerg/graffiti/internal/runner"
	"github.com/verte-zerg/graffiti/internal/schedule"
	"github.com/verte-zerg/graffiti/internal/stats"
	"github.com/verte-zerg/graffiti/internal/store"
	"github.com/verte-zerg/graffiti/internal/tui"
)

const (
	headerLayout   = "Mon Jan 02 15:04:05 MST 2006"
	dryRunDayDelay = 2 * time.Millisecond
)

// layout is a message placed on the calendar.
type layout struct {
	message  string
	charset  glyph.Charset
	grid     render.Grid
	window   calendar.Window
	polarity calendar.Polarity
	days     []calendar.Day
}

func buildLayout(cfg model.Config, now time.Time) (layout, error) {
	charset, err := glyph.ParseCharset(cfg.Charset)
	if err != nil {
		return layout{}, err
	}
	length, err := calendar.ParseLength(cfg.Window)
	if err != nil {
		return layout{}, err
	}
	table, err := loadFont(cfg.Font)
	if err != nil {
		return layout{}, err
	}
	message, err := charset.Prepare(cfg.Message)
	if err != nil {
		return layout{}, err
	}
	grid, err := render.Render(table, message)
	if err != nil {
		return layout{}, err
	}
	window := calendar.NewWindow(resolveAnchor(cfg, now), grid, length)
	polarity := calendar.PolarityFor(cfg.Invert)
	return layout{
		message:  message,
		charset:  charset,
		grid:     grid,
		window:   window,
		polarity: polarity,
		days:     calendar.Map(grid, window, polarity),
	}, nil
}

func loadFont(path string) (*glyph.Table, error) {
	if path == "" {
		return glyph.Default()
	}
	return glyph.LoadFile(path)
}

// resolveAnchor starts at the Sunday on or before --start when given,
// otherwise weeks-back weeks before the current week.
func resolveAnchor(cfg model.Config, now time.Time) time.Time {
	if cfg.Start != nil {
		return calendar.Anchor(*cfg.Start, 0)
	}
	return calendar.Anchor(now, cfg.WeeksBack)
}

func headerLines(w calendar.Window, summary stats.Summary) []string {
	return []string{
		"Starting on " + w.Start.Format(headerLayout),
		"Ending on   " + w.End.Format(headerLayout),
		summary.String(),
	}
}

// paint validates and lays out the message before executor runs anything.
func paint(ctx context.Context, out io.Writer, cfg model.Config, executor git.CommandExecutor) error {
	log := logger.New(os.Stderr, cfg.Verbose)

	lay, err := buildLayout(cfg, time.Now())
	if err != nil {
		return err
	}
	r := schedule.Range{Min: cfg.MinCommits, Max: cfg.MaxCommits}
	var gen *generator.Generator
	if cfg.Seed != nil {
		gen = generator.NewWithSeed(*cfg.Seed)
	} else {
		gen = generator.New()
	}
	plan, err := schedule.New(lay.days, r, gen)
	if err != nil {
		return err
	}

	committer, dry, err := newCommitter(ctx, cfg, executor, log)
	if err != nil {
		return err
	}
	opts := []runner.Option{runner.WithLogger(log)}
	if dry != nil {
		opts = append(opts, runner.WithDayDelay(dryRunDayDelay))
	}

	hist := openLedger(ctx, cfg, lay, log)
	defer hist.close()
	if hist != nil {
		opts = append(opts, runner.WithRecorder(hist))
	}

	header := headerLines(lay.window, stats.Summarize(lay.days, r))
	log.Debug("painting", "message", lay.message, "charset", lay.charset, "polarity", lay.polarity, "days", len(lay.days))

	var result runner.Result
	var runErr error
	if !cfg.NoTUI && tui.IsTerminal(out) {
		m := tui.NewModel(lay.window, lay.grid.Width(), header)
		result, runErr = tui.Run(ctx, out, m, func(ctx context.Context, reporter runner.Reporter) (runner.Result, error) {
			return runner.New(committer, append(opts, runner.WithReporter(reporter))...).Run(ctx, plan)
		})
	} else {
		for _, line := range header {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		reporter := tui.NewPlainReporter(out)
		result, runErr = runner.New(committer, append(opts, runner.WithReporter(reporter))...).Run(ctx, plan)
		if runErr == nil {
			reporter.Finish()
		} else if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	hist.finish(ctx, result, runErr)
	if runErr != nil {
		return runErr
	}

	if dry != nil {
		_, err = fmt.Fprintf(out, "Dry run: %d commits across %d days, nothing committed\n", dry.Count, result.OnDays)
	} else {
		_, err = fmt.Fprintf(out, "Created %d commits across %d days\n", result.Commits, result.OnDays)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// newCommitter returns a dry-run committer, or a git committer after the
// env file is loaded and the target is confirmed to be a repository.
func newCommitter(ctx context.Context, cfg model.Config, executor git.CommandExecutor, log *slog.Logger) (git.Committer, *git.DryRunCommitter, error) {
	if cfg.DryRun {
		dry := &git.DryRunCommitter{}
		return dry, dry, nil
	}
	loaded, err := config.LoadEnv(cfg.EnvFile, cfg.Repo)
	if err != nil {
		return nil, nil, err
	}
	if loaded != "" {
		log.Debug("loaded env file", "path", loaded)
	}
	gc := git.NewGitCommitterWithExecutor(cfg.Repo, executor)
	ok, err := gc.IsRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		repo := cfg.Repo
		if repo == "" {
			repo = "current directory"
		}
		return nil, nil, fmt.Errorf("%s is not a git repository", repo)
	}
	return gc, nil, nil
}

// ledger records a run in the history database. A nil ledger is a no-op;
// history failures are logged and never stop a run.
type ledger struct {
	st  *store.Store
	id  int64
	log *slog.Logger
}

func openLedger(ctx context.Context, cfg model.Config, lay layout, log *slog.Logger) *ledger {
	if !cfg.History {
		return nil
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		log.Warn("run history disabled", "err", err)
		return nil
	}
	id, err := st.StartRun(ctx, model.Run{
		StartedAt:  time.Now(),
		Message:    lay.message,
		Anchor:     lay.window.Start,
		End:        lay.window.End,
		MinCommits: cfg.MinCommits,
		MaxCommits: cfg.MaxCommits,
		Charset:    string(lay.charset),
		Window:     string(lay.window.Length),
		Inverted:   cfg.Invert,
		DryRun:     cfg.DryRun,
		Status:     model.RunRunning,
	})
	if err != nil {
		log.Warn("run history disabled", "err", err)
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "err", cerr)
		}
		return nil
	}
	return &ledger{st: st, id: id, log: log}
}

// RecordDay implements runner.Recorder.
func (l *ledger) RecordDay(ctx context.Context, date time.Time, commits int) error {
	return l.st.RecordDay(ctx, model.RunDay{RunID: l.id, Date: date, Commits: commits})
}

func (l *ledger) finish(ctx context.Context, result runner.Result, runErr error) {
	if l == nil {
		return
	}
	status := model.RunCompleted
	if runErr != nil {
		status = model.RunFailed
	}
	// The walk may have been canceled; the final status still has to land.
	if err := l.st.FinishRun(context.WithoutCancel(ctx), l.id, status, result.Commits, time.Now()); err != nil {
		l.log.Warn("failed to record run status", "err", err)
	}
}

func (l *ledger) close() {
	if l == nil {
		return
	}
	if err := l.st.Close(); err != nil {
		l.log.Warn("failed to close db", "err", err)
	}
}
