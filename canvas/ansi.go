package canvas

import (
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
)

// ANSI returns the grid as text with 24-bit colour escape sequences. Runs of
// cells with the same colours share one sequence.
func (g *Grid) ANSI() string {
	var sb strings.Builder
	for y := range g.cells {
		row := g.cells[y]
		for x := 0; x < len(row); {
			start := row[x]
			var run strings.Builder
			for ; x < len(row) && sameStyle(row[x], start); x++ {
				if row[x].Rune != continuation {
					run.WriteRune(row[x].Rune)
				}
			}
			sb.WriteString(styleFor(start).Sprint(run.String()))
		}
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func sameStyle(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Bold == b.Bold
}

func styleFor(c Cell) *color.Color {
	st := color.New()
	st.EnableColor()
	if c.Bold {
		st.Add(color.Bold)
	}
	if fg, err := colorful.Hex(c.FG); c.FG != "" && err == nil {
		r, g, b := fg.RGB255()
		st.AddRGB(int(r), int(g), int(b))
	}
	if bg, err := colorful.Hex(c.BG); c.BG != "" && err == nil {
		r, g, b := bg.RGB255()
		st.AddBgRGB(int(r), int(g), int(b))
	}
	return st
}
