// Package render turns a message into a pixel grid using a glyph table.
package render

import (
	"strings"

	"github.com/verte-zerg/graffiti/internal/glyph"
)

// Grid is an immutable block of on/off pixels, glyph.Rows tall.
type Grid struct {
	cells [glyph.Rows][]bool
	width int
}

// Render lays out message left to right: one blank spacer column, then each
// glyph followed by one blank spacer column.
func Render(table *glyph.Table, message string) (Grid, error) {
	runes := []rune(message)
	width := 1 + len(runes)*(table.Width()+1)

	var grid Grid
	grid.width = width
	for r := range grid.cells {
		grid.cells[r] = make([]bool, width)
	}

	col := 1
	for _, ch := range runes {
		g, err := table.Lookup(ch)
		if err != nil {
			return Grid{}, err
		}
		for r := 0; r < glyph.Rows; r++ {
			for c := 0; c < g.Width(); c++ {
				grid.cells[r][col+c] = g.On(r, c)
			}
		}
		col += g.Width() + 1
	}
	return grid, nil
}

// Rows returns the grid height.
func (g Grid) Rows() int {
	return glyph.Rows
}

// Width returns the number of columns.
func (g Grid) Width() int {
	return g.width
}

// Cells returns Rows()*Width(), the number of calendar days the grid covers.
func (g Grid) Cells() int {
	return glyph.Rows * g.width
}

// On reports whether the pixel at row, col is filled. Out-of-range
// coordinates are off.
func (g Grid) On(row, col int) bool {
	if row < 0 || row >= glyph.Rows || col < 0 || col >= g.width {
		return false
	}
	return g.cells[row][col]
}

// String renders the grid with glyph markers, one line per row.
func (g Grid) String() string {
	var b strings.Builder
	for r := 0; r < glyph.Rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.width; c++ {
			if g.cells[r][c] {
				b.WriteByte(glyph.OnMarker)
			} else {
				b.WriteByte(glyph.OffMarker)
			}
		}
	}
	return b.String()
}
