package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/graffiti/internal/git"
	"github.com/verte-zerg/graffiti/internal/runner"
	"github.com/verte-zerg/graffiti/internal/schedule"
)

const barCells = 25

// Bar renders a 25-cell progress bar followed by the whole percentage.
func Bar(percent float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < barCells; i++ {
		if float64(i*4) <= percent {
			b.WriteByte('=')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte(']')
	return fmt.Sprintf("%s %d%%", b.String(), int(percent))
}

// PlainReporter rewrites a single progress line with carriage returns.
type PlainReporter struct {
	w    io.Writer
	last schedule.Progress
}

// NewPlainReporter returns a reporter writing to w.
func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

// Report implements runner.Reporter.
func (p *PlainReporter) Report(step runner.Step) {
	p.last = step.Progress
	p.write(step.Progress, step.Progress.Percent())
}

// Finish writes the final 100% line and a newline.
func (p *PlainReporter) Finish() {
	p.write(p.last, 100)
	if _, err := fmt.Fprintln(p.w); err != nil {
		// Best-effort progress output.
		_ = err
	}
}

func (p *PlainReporter) write(progress schedule.Progress, percent float64) {
	if _, err := fmt.Fprintf(p.w, "\r%s %s", git.FormatTimestamp(progress.Date), Bar(percent)); err != nil {
		// Best-effort progress output.
		_ = err
	}
}
