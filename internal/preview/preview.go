// Package preview prints a pixel grid as text before anything is committed.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/graffiti/internal/calendar"
)

const (
	// Foreground marks a day that receives commits.
	Foreground = '#'
	// Blank marks a day that is left alone.
	Blank = ' '
)

var weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Options controls Render output.
type Options struct {
	// Color styles foreground cells with lipgloss.
	Color bool
	// Labels prefixes each row with its weekday.
	Labels bool
}

var (
	cellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Rows returns one string per grid row. Under normal polarity filled
// pixels are Foreground; inverted swaps Foreground and Blank.
func Rows(bitmap calendar.Bitmap, polarity calendar.Polarity) []string {
	rows := make([]string, bitmap.Rows())
	for r := range rows {
		var b strings.Builder
		for c := 0; c < bitmap.Width(); c++ {
			if polarity.Apply(bitmap.On(r, c)) {
				b.WriteByte(Foreground)
			} else {
				b.WriteByte(Blank)
			}
		}
		rows[r] = b.String()
	}
	return rows
}

// Render writes the preview rows to w.
func Render(w io.Writer, bitmap calendar.Bitmap, polarity calendar.Polarity, opts Options) error {
	labelWidth := 0
	if opts.Labels {
		for _, label := range weekdayLabels {
			if lw := runewidth.StringWidth(label); lw > labelWidth {
				labelWidth = lw
			}
		}
	}
	for r, row := range Rows(bitmap, polarity) {
		line := row
		if opts.Color {
			line = colorize(row)
		}
		if opts.Labels {
			label := runewidth.FillRight(weekdayLabels[r%len(weekdayLabels)], labelWidth)
			if opts.Color {
				label = labelStyle.Render(label)
			}
			line = label + " " + line
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
	}
	return nil
}

func colorize(row string) string {
	var b strings.Builder
	for _, ch := range row {
		if ch == Foreground {
			b.WriteString(cellStyle.Render(string(ch)))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
