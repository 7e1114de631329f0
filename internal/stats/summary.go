package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/verte-zerg/graffiti/internal/calendar"
	"github.com/verte-zerg/graffiti/internal/model"
	"github.com/verte-zerg/graffiti/internal/schedule"
)

// Summary describes the size of a plan before it runs.
type Summary struct {
	Days       int
	OnDays     int
	MinCommits int
	MaxCommits int
}

// Summarize counts the days that will receive commits and the bounds on the total.
func Summarize(days []calendar.Day, r schedule.Range) Summary {
	s := Summary{Days: len(days)}
	for _, d := range days {
		if d.On {
			s.OnDays++
		}
	}
	s.MinCommits = s.OnDays * r.Min
	s.MaxCommits = s.OnDays * r.Max
	return s
}

// String renders the summary on one line.
func (s Summary) String() string {
	if s.MinCommits == s.MaxCommits {
		return fmt.Sprintf("%d of %d days painted, %d commits", s.OnDays, s.Days, s.MinCommits)
	}
	return fmt.Sprintf("%d of %d days painted, %d-%d commits", s.OnDays, s.Days, s.MinCommits, s.MaxCommits)
}

// WriteRuns prints recorded runs as a table, newest first.
func WriteRuns(w io.Writer, runs []model.Run) error {
	headers := []string{"ID", "Started", "Message", "Window", "Range", "Commits", "Status"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := run.Status
		if run.DryRun {
			status += " (dry run)"
		}
		if run.Inverted {
			status += " (inverted)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%q", run.Message),
			run.Anchor.Format(time.DateOnly) + " - " + run.End.Format(time.DateOnly),
			fmt.Sprintf("%d-%d", run.MinCommits, run.MaxCommits),
			strconv.Itoa(run.Commits),
			status,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
