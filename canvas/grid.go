// Package canvas provides a character cell grid that the renderer can draw
// on, used by the terminal host and the ASCII exporter.
package canvas

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid grid size")
)

// continuation marks the right half of a wide rune.
const continuation = '\x00'

// Cell is one character position.
type Cell struct {
	Rune rune
	FG   string // hex colour, "" for default
	BG   string // hex colour, "" for default
	Bold bool
}

// Grid is a rune matrix with box-drawing junction merging.
//
// Grid is NOT safe for concurrent writes.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
type Grid struct {
	cells  [][]Cell
	width  int
	height int
	merger *CharacterMerger
}

// NewGrid creates a blank grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	g := &Grid{cells: cells, width: width, height: height, merger: NewCharacterMerger()}
	g.Fill("")
	return g, nil
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the cell at (x, y); out of range positions read as blank.
func (g *Grid) Get(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Cell{Rune: ' '}
	}
	return g.cells[y][x]
}

// Set merges r into the cell at (x, y) and paints it fg.
func (g *Grid) Set(x, y int, r rune, fg string) error {
	if !g.inBounds(x, y) {
		return ErrOutOfBounds
	}
	c := &g.cells[y][x]
	c.Rune = g.merger.Merge(c.Rune, r)
	if fg != "" {
		c.FG = fg
	}
	return nil
}

// Put overwrites the cell at (x, y) without merging. Out of range writes are
// dropped.
func (g *Grid) Put(x, y int, r rune, fg string, bold bool) {
	if !g.inBounds(x, y) {
		return
	}
	c := &g.cells[y][x]
	c.Rune, c.Bold = r, bold
	if fg != "" {
		c.FG = fg
	}
}

// Paint sets the background of the cell at (x, y).
func (g *Grid) Paint(x, y int, bg string) {
	if g.inBounds(x, y) {
		g.cells[y][x].BG = bg
	}
}

// Fill resets every cell to a blank with background bg.
func (g *Grid) Fill(bg string) {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = Cell{Rune: ' ', BG: bg}
		}
	}
}

// DrawText writes text starting at (x, y). Wide runes take two cells and
// zero-width runes are skipped; text running off the grid is cut.
func (g *Grid) DrawText(x, y int, text, fg string, bold bool) {
	if y < 0 || y >= g.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= g.width || (w == 2 && x+1 >= g.width) {
			return
		}
		if x >= 0 {
			g.Put(x, y, r, fg, bold)
			if w == 2 {
				g.Put(x+1, y, continuation, fg, bold)
			}
		}
		x += w
	}
}

// String returns the grid as text, one line per row, with trailing spaces
// trimmed.
func (g *Grid) String() string { return g.Text(Unicode) }

// Text is String with every rune mapped into cs.
func (g *Grid) Text(cs Charset) string {
	var sb strings.Builder
	sb.Grow(g.height * (g.width + 1))
	for y := range g.cells {
		line := make([]rune, 0, g.width)
		for _, c := range g.cells[y] {
			if c.Rune == continuation {
				continue
			}
			line = append(line, cs.Rune(c.Rune))
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
