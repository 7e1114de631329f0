package render

import (
	"errors"
	"strings"
	"testing"

	gerrors "github.com/verte-zerg/graffiti/internal/errors"
	"github.com/verte-zerg/graffiti/internal/glyph"
)

func defaultTable(t *testing.T) *glyph.Table {
	t.Helper()
	table, err := glyph.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	return table
}

func TestRenderHIWidth(t *testing.T) {
	grid, err := Render(defaultTable(t), "HI")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if grid.Rows() != 7 {
		t.Fatalf("expected 7 rows, got %d", grid.Rows())
	}
	if grid.Width() != 13 {
		t.Fatalf("expected width 13, got %d", grid.Width())
	}
	want := strings.Join([]string{
		".............",
		".#..#...###..",
		".#..#....#...",
		".####....#...",
		".#..#....#...",
		".#..#...###..",
		".............",
	}, "\n")
	if grid.String() != want {
		t.Fatalf("unexpected grid:\n%s\nwant:\n%s", grid.String(), want)
	}
}

func TestRenderSpacerColumnsAreOff(t *testing.T) {
	table := defaultTable(t)
	grid, err := Render(table, "###")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	step := table.Width() + 1
	for col := 0; col < grid.Width(); col += step {
		for row := 0; row < grid.Rows(); row++ {
			if grid.On(row, col) {
				t.Fatalf("spacer column %d row %d is on", col, row)
			}
		}
	}
}

func TestRenderSpaceKeepsWidth(t *testing.T) {
	table := defaultTable(t)
	grid, err := Render(table, "A B")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if grid.Width() != 1+3*(table.Width()+1) {
		t.Fatalf("unexpected width %d", grid.Width())
	}
	start := 1 + table.Width() + 1
	for col := start; col < start+table.Width(); col++ {
		for row := 0; row < grid.Rows(); row++ {
			if grid.On(row, col) {
				t.Fatalf("space glyph pixel on at %d,%d", row, col)
			}
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	table := defaultTable(t)
	a, err := Render(table, "Hello, World!")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b, err := Render(table, "Hello, World!")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical grids")
	}
	if a.Cells() != 7*a.Width() {
		t.Fatalf("unexpected cell count %d", a.Cells())
	}
}

func TestRenderUnsupportedCharacter(t *testing.T) {
	_, err := Render(defaultTable(t), "ok\x01")
	if !errors.Is(err, gerrors.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestOnOutOfRange(t *testing.T) {
	grid, err := Render(defaultTable(t), "I")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if grid.On(-1, 0) || grid.On(0, grid.Width()) || grid.On(7, 0) {
		t.Fatalf("expected out-of-range cells to be off")
	}
}
