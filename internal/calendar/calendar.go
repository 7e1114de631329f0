// Package calendar anchors a pixel grid onto contribution-calendar days.
package calendar

import (
	"fmt"
	"strings"
	"time"

	gerrors "github.com/verte-zerg/graffiti/internal/errors"
)

// DefaultWeeksBack leaves about a week of margin on a 52-53 week calendar.
const DefaultWeeksBack = 51

const daysPerWeek = 7

// Bitmap is the read-only view of a pixel grid the mapper needs.
type Bitmap interface {
	Rows() int
	Width() int
	On(row, col int) bool
}

// Polarity selects whether filled or empty pixels receive commits.
type Polarity int

const (
	// Normal paints the text.
	Normal Polarity = iota
	// Inverted paints the background, leaving the text empty.
	Inverted
)

// PolarityFor returns Inverted when invert is set.
func PolarityFor(invert bool) Polarity {
	if invert {
		return Inverted
	}
	return Normal
}

// Apply maps a pixel state to an on/off day state.
func (p Polarity) Apply(pixel bool) bool {
	if p == Inverted {
		return !pixel
	}
	return pixel
}

func (p Polarity) String() string {
	if p == Inverted {
		return "inverted"
	}
	return "normal"
}

// Length names how the window length is counted. Both profiles visit every
// grid cell exactly once; they differ in the span they report.
type Length string

const (
	// LengthInclusive reports the index of the last day and walks up to it inclusively.
	LengthInclusive Length = "inclusive"
	// LengthExact reports the number of days and walks up to it exclusively.
	LengthExact Length = "exact"
)

// ParseLength validates a window-length profile name.
func ParseLength(name string) (Length, error) {
	switch Length(strings.ToLower(strings.TrimSpace(name))) {
	case LengthInclusive:
		return LengthInclusive, nil
	case LengthExact:
		return LengthExact, nil
	default:
		return "", gerrors.NewConfigError("window", name, fmt.Errorf("must be %q or %q", LengthInclusive, LengthExact))
	}
}

// Anchor returns noon on the Sunday starting the week weeksBack weeks
// before the week containing ref, in ref's location.
func Anchor(ref time.Time, weeksBack int) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 12, 0, 0, 0, ref.Location())
	day = day.AddDate(0, 0, -int(day.Weekday()))
	return day.AddDate(0, 0, -daysPerWeek*weeksBack)
}

// Window is the run of consecutive days a grid is painted onto.
type Window struct {
	Start  time.Time
	End    time.Time
	Length Length
	// Span is the last day index for LengthInclusive and the day count for LengthExact.
	Span int
}

// NewWindow sizes a window for bitmap starting at anchor.
func NewWindow(anchor time.Time, bitmap Bitmap, length Length) Window {
	cells := bitmap.Rows() * bitmap.Width()
	span := cells
	if length == LengthInclusive {
		span = cells - 1
	}
	return Window{
		Start:  anchor,
		End:    anchor.AddDate(0, 0, cells-1),
		Length: length,
		Span:   span,
	}
}

// Days returns the number of days visited.
func (w Window) Days() int {
	if w.Length == LengthInclusive {
		return w.Span + 1
	}
	return w.Span
}

// Date returns the date of day index d.
func (w Window) Date(d int) time.Time {
	return w.Start.AddDate(0, 0, d)
}

// Day is one calendar cell.
type Day struct {
	Index int
	Date  time.Time
	Row   int
	Col   int
	// On is the pixel state after polarity.
	On bool
}

// Map walks the window in calendar order. Day d lands on row d%7 and
// column d/7 of bitmap.
func Map(bitmap Bitmap, w Window, polarity Polarity) []Day {
	days := make([]Day, 0, w.Days())
	for d := 0; d < w.Days(); d++ {
		row := d % daysPerWeek
		col := d / daysPerWeek
		days = append(days, Day{
			Index: d,
			Date:  w.Date(d),
			Row:   row,
			Col:   col,
			On:    polarity.Apply(bitmap.On(row, col)),
		})
	}
	return days
}
