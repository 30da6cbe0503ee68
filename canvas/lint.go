package canvas

import (
	"fmt"
	"strings"
)

// Dir is one of the four arms a line-drawing rune can have.
type Dir uint8

const (
	North Dir = 1 << iota
	East
	South
	West
)

func (d Dir) opposite() Dir {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	default:
		return "west"
	}
}

// arms lists the directions each line-drawing rune connects to.
var arms = map[rune]Dir{
	'─': East | West, '┄': East | West, '-': East | West,
	'│': North | South, '┆': North | South, '|': North | South,
	'┌': East | South, '╭': East | South,
	'┐': West | South, '╮': West | South,
	'└': East | North, '╰': East | North,
	'┘': West | North, '╯': West | North,
	'├': North | South | East, '┤': North | South | West,
	'┬': East | West | South, '┴': East | West | North,
	'┼': North | East | South | West, '+': North | East | South | West,
}

// Defect is a line-drawing rune whose arm runs into a rune that does not
// reach back.
type Defect struct {
	X, Y     int
	Rune     rune
	Dir      Dir
	Neighbor rune
}

func (d Defect) String() string {
	return fmt.Sprintf("(%d,%d) %q: %s arm meets %q", d.X, d.Y, d.Rune, d.Dir, d.Neighbor)
}

// Lint checks rendered grid text for broken joins. Blanks, labels and
// arrowheads next to an arm are fine; another line rune must have the
// opposite arm. ASCII '+' is treated as a full junction.
func Lint(text string) []Defect {
	var rows [][]rune
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		rows = append(rows, []rune(l))
	}
	at := func(x, y int) rune {
		if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
			return ' '
		}
		return rows[y][x]
	}

	var defects []Defect
	for y, row := range rows {
		for x, r := range row {
			a, ok := arms[r]
			if !ok {
				continue
			}
			for _, d := range []Dir{North, East, South, West} {
				if a&d == 0 {
					continue
				}
				nx, ny := x, y
				switch d {
				case North:
					ny--
				case South:
					ny++
				case East:
					nx++
				case West:
					nx--
				}
				n := at(nx, ny)
				if na, ok := arms[n]; ok && na&d.opposite() == 0 {
					defects = append(defects, Defect{X: x, Y: y, Rune: r, Dir: d, Neighbor: n})
				}
			}
		}
	}
	return defects
}
