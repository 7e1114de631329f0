// Package store handles SQLite persistence of paint runs.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/graffiti/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			anchor TEXT NOT NULL,
			end_date TEXT NOT NULL,
			min_commits INTEGER NOT NULL,
			max_commits INTEGER NOT NULL,
			charset TEXT NOT NULL,
			window_length TEXT NOT NULL,
			inverted INTEGER NOT NULL,
			dry_run INTEGER NOT NULL,
			status TEXT NOT NULL,
			commits INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS run_days (
			run_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			commits INTEGER NOT NULL,
			PRIMARY KEY (run_id, date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// StartRun inserts a run in the running state and returns its id.
func (s *Store) StartRun(ctx context.Context, run model.Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, message, anchor, end_date, min_commits, max_commits, charset, window_length, inverted, dry_run, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Message,
		run.Anchor.Format(dateLayout),
		run.End.Format(dateLayout),
		run.MinCommits,
		run.MaxCommits,
		run.Charset,
		run.Window,
		boolToInt(run.Inverted),
		boolToInt(run.DryRun),
		model.RunRunning,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordDay stores the commit count created for one day of a run.
func (s *Store) RecordDay(ctx context.Context, day model.RunDay) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO run_days (run_id, date, commits) VALUES (?, ?, ?)`,
		day.RunID, day.Date.Format(dateLayout), day.Commits)
	return err
}

// FinishRun sets the final status and commit total of a run.
func (s *Store) FinishRun(ctx context.Context, id int64, status string, commits int, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, commits = ?, finished_at = ? WHERE id = ?`,
		status, commits, finishedAt.Format(time.RFC3339Nano), id)
	return err
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, message, anchor, end_date, min_commits, max_commits,
			charset, window_length, inverted, dry_run, status, commits
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		var (
			run                   model.Run
			startedAt, finishedAt string
			anchor, end           string
			inverted, dryRun      int
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Message, &anchor, &end,
			&run.MinCommits, &run.MaxCommits, &run.Charset, &run.Window, &inverted, &dryRun,
			&run.Status, &run.Commits); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if finishedAt != "" {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
				return nil, err
			}
		}
		if run.Anchor, err = time.Parse(dateLayout, anchor); err != nil {
			return nil, err
		}
		if run.End, err = time.Parse(dateLayout, end); err != nil {
			return nil, err
		}
		run.Inverted = inverted != 0
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListRunDays returns the recorded days of a run in date order.
func (s *Store) ListRunDays(ctx context.Context, runID int64) ([]model.RunDay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, date, commits FROM run_days WHERE run_id = ? ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var days []model.RunDay
	for rows.Next() {
		var day model.RunDay
		var date string
		if err := rows.Scan(&day.RunID, &date, &day.Commits); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, err
		}
		day.Date = parsed
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
