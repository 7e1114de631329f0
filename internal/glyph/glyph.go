// Package glyph loads fixed-size pixel fonts and validates messages against them.
package glyph

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	gerrors "github.com/verte-zerg/graffiti/internal/errors"
)

// Rows is the height of every glyph; it matches the seven weekdays of a calendar column.
const Rows = 7

const (
	// OnMarker marks a filled pixel in a glyph resource.
	OnMarker = '#'
	// OffMarker marks an empty pixel in a glyph resource.
	OffMarker = '.'
)

//go:embed fonts/ascii5x7.txt
var defaultFont string

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Parse(strings.NewReader(defaultFont))
})

// Glyph is the bitmap for a single character.
type Glyph struct {
	Char rune
	Rows [Rows]string
}

// Width returns the number of columns in the glyph.
func (g Glyph) Width() int {
	return len(g.Rows[0])
}

// On reports whether the pixel at row, col is filled.
func (g Glyph) On(row, col int) bool {
	return g.Rows[row][col] == OnMarker
}

// Table maps characters to glyphs. Every glyph shares the same width.
type Table struct {
	width  int
	glyphs map[rune]Glyph
}

// Default returns the embedded printable-ASCII 5x7 font.
func Default() (*Table, error) {
	return loadDefault()
}

// LoadFile parses a glyph resource from path.
func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, gerrors.NewConfigError("font", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only font file.
			_ = cerr
		}
	}()
	table, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a glyph resource: a "0xNN label" header followed by exactly
// Rows rows of '.'/'#' per glyph. Blank lines and lines starting with ';'
// are ignored.
func Parse(r io.Reader) (*Table, error) {
	table := &Table{glyphs: map[rune]Glyph{}}

	var (
		current Glyph
		rows    int
		open    bool
		lineNo  int
	)
	flush := func() error {
		if !open {
			return nil
		}
		if rows != Rows {
			return fontError(lineNo, fmt.Errorf("glyph 0x%02X has %d rows, want %d", current.Char, rows, Rows))
		}
		table.glyphs[current.Char] = current
		open = false
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "0x") {
			if err := flush(); err != nil {
				return nil, err
			}
			ch, err := parseHeader(line)
			if err != nil {
				return nil, fontError(lineNo, err)
			}
			if _, dup := table.glyphs[ch]; dup {
				return nil, fontError(lineNo, fmt.Errorf("duplicate glyph 0x%02X", ch))
			}
			current = Glyph{Char: ch}
			rows = 0
			open = true
			continue
		}
		if !open {
			return nil, fontError(lineNo, fmt.Errorf("row outside of a glyph"))
		}
		if rows == Rows {
			return nil, fontError(lineNo, fmt.Errorf("glyph 0x%02X has more than %d rows", current.Char, Rows))
		}
		if strings.Trim(line, string([]rune{OnMarker, OffMarker})) != "" {
			return nil, fontError(lineNo, fmt.Errorf("unknown marker in row %q", line))
		}
		if table.width == 0 {
			table.width = len(line)
		}
		if len(line) != table.width {
			return nil, fontError(lineNo, fmt.Errorf("row width %d differs from font width %d", len(line), table.width))
		}
		current.Rows[rows] = line
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, gerrors.NewConfigError("font", nil, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(table.glyphs) == 0 {
		return nil, gerrors.NewConfigError("font", nil, fmt.Errorf("no glyphs defined"))
	}
	return table, nil
}

func parseHeader(line string) (rune, error) {
	code := strings.Fields(line)[0]
	value, err := strconv.ParseUint(strings.TrimPrefix(code, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid glyph header %q", line)
	}
	return rune(value), nil
}

func fontError(line int, err error) error {
	return gerrors.NewConfigError("font", fmt.Sprintf("line %d", line), err)
}

// Width returns the column width shared by all glyphs.
func (t *Table) Width() int {
	return t.width
}

// Lookup returns the glyph for ch.
func (t *Table) Lookup(ch rune) (Glyph, error) {
	g, ok := t.glyphs[ch]
	if !ok {
		return Glyph{}, &gerrors.MessageError{Invalid: []string{Describe(ch)}}
	}
	return g, nil
}

// Has reports whether the table defines ch.
func (t *Table) Has(ch rune) bool {
	_, ok := t.glyphs[ch]
	return ok
}

// Chars returns the defined characters in ascending order.
func (t *Table) Chars() []rune {
	chars := make([]rune, 0, len(t.glyphs))
	for ch := range t.glyphs {
		chars = append(chars, ch)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return chars
}

// Describe formats a character for error output. Printable ASCII is quoted,
// everything else is shown as a hex escape.
func Describe(ch rune) string {
	if ch >= printableFirst && ch <= printableLast {
		return strconv.QuoteRune(ch)
	}
	return fmt.Sprintf("0x%02X", ch)
}
