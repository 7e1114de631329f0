package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/graffiti/internal/calendar"
	"github.com/verte-zerg/graffiti/internal/glyph"
	"github.com/verte-zerg/graffiti/internal/render"
)

func renderGrid(t *testing.T, message string) render.Grid {
	t.Helper()
	table, err := glyph.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	grid, err := render.Render(table, message)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return grid
}

func TestRowsNormal(t *testing.T) {
	rows := Rows(renderGrid(t, "HI"), calendar.Normal)
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	if rows[3] != " ####    #   " {
		t.Fatalf("unexpected row 3: %q", rows[3])
	}
	if strings.TrimSpace(rows[0]) != "" {
		t.Fatalf("expected blank top row, got %q", rows[0])
	}
}

func TestRowsInvertedIsExactSwap(t *testing.T) {
	grid := renderGrid(t, "Hello!")
	normal := Rows(grid, calendar.Normal)
	inverted := Rows(grid, calendar.Inverted)
	for r := range normal {
		if len(normal[r]) != len(inverted[r]) {
			t.Fatalf("row %d widths differ", r)
		}
		for c := 0; c < len(normal[r]); c++ {
			n, i := normal[r][c], inverted[r][c]
			if (n == Foreground) == (i == Foreground) {
				t.Fatalf("cell %d,%d not swapped: %q vs %q", r, c, n, i)
			}
		}
	}
}

func TestRenderWithLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, renderGrid(t, "HI"), calendar.Normal, Options{Labels: true}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[0] != "Sun" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[3] != "Wed  ####    #" {
		t.Fatalf("unexpected wednesday line %q", lines[3])
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, renderGrid(t, "I"), calendar.Inverted, Options{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "#######" {
		t.Fatalf("unexpected inverted top row %q", lines[0])
	}
	if lines[1] != "##   ##" {
		t.Fatalf("unexpected inverted row 1 %q", lines[1])
	}
}
