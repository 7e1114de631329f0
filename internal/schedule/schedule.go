// Package schedule decides how many commits each calendar day receives.
package schedule

import (
	"time"

	"github.com/verte-zerg/graffiti/internal/calendar"
	gerrors "github.com/verte-zerg/graffiti/internal/errors"
)

// Drawer yields a uniformly distributed integer in [lo, hi].
type Drawer interface {
	Between(lo, hi int) int
}

// Range bounds the per-day commit count, inclusive on both ends.
type Range struct {
	Min int
	Max int
}

// Validate checks 1 <= Min <= Max.
func (r Range) Validate() error {
	if r.Min < 1 {
		return &gerrors.RangeError{Min: r.Min, Max: r.Max, Reason: "min commits must be at least 1"}
	}
	if r.Max < 1 {
		return &gerrors.RangeError{Min: r.Min, Max: r.Max, Reason: "max commits must be at least 1"}
	}
	if r.Min > r.Max {
		return &gerrors.RangeError{Min: r.Min, Max: r.Max, Reason: "min commits cannot be more than max commits"}
	}
	return nil
}

// Entry is the commit count for one "on" day.
type Entry struct {
	Day   calendar.Day
	Count int
}

// Date returns the day's timestamp.
func (e Entry) Date() time.Time {
	return e.Day.Date
}

// Progress locates the walk within the window. Index counts the days
// processed so far, the current day included.
type Progress struct {
	Date  time.Time
	Index int
	Total int
}

// Percent returns the share of days processed.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Index) * 100 / float64(p.Total)
}

// Plan walks days one at a time, drawing a count for each "on" day. It is
// single use: a second walk needs a new Plan and draws different counts.
type Plan struct {
	days   []calendar.Day
	bounds Range
	draw   Drawer
	pos    int
	entry  Entry
	ok     bool
}

// New validates r and returns a Plan positioned before the first day.
func New(days []calendar.Day, r Range, draw Drawer) (*Plan, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Plan{days: days, bounds: r, draw: draw, pos: -1}, nil
}

// Next advances to the next day. Off days are visited but consume no draw.
func (p *Plan) Next() bool {
	if p.pos+1 >= len(p.days) {
		p.pos = len(p.days)
		p.ok = false
		return false
	}
	p.pos++
	day := p.days[p.pos]
	if !day.On {
		p.entry = Entry{}
		p.ok = false
		return true
	}
	p.entry = Entry{Day: day, Count: p.draw.Between(p.bounds.Min, p.bounds.Max)}
	p.ok = true
	return true
}

// Day returns the current day.
func (p *Plan) Day() calendar.Day {
	return p.days[p.pos]
}

// Progress reports the position after the current day is processed.
func (p *Plan) Progress() Progress {
	if p.pos >= len(p.days) || len(p.days) == 0 {
		var last time.Time
		if len(p.days) > 0 {
			last = p.days[len(p.days)-1].Date
		}
		return Progress{Date: last, Index: len(p.days), Total: len(p.days)}
	}
	if p.pos < 0 {
		return Progress{Date: p.days[0].Date, Total: len(p.days)}
	}
	return Progress{Date: p.days[p.pos].Date, Index: p.pos + 1, Total: len(p.days)}
}

// Entry returns the current day's entry; ok is false on off days.
func (p *Plan) Entry() (Entry, bool) {
	return p.entry, p.ok
}

// Collect drains p and returns the entries for every "on" day.
func Collect(p *Plan) []Entry {
	var entries []Entry
	for p.Next() {
		if entry, ok := p.Entry(); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
