package terminal

import (
	"math"

	"graphboard/scene"

	"github.com/gdamore/tcell/v2"
)

// Label runes in order of preference, home row first.
const jumpChars = "asdfghjklqwertyuiopzxcvbnm"

// jumpLabel marks a node with the key that selects it.
type jumpLabel struct {
	key  rune
	id   string
	x, y int
}

// startJump labels every node whose top-left corner is on the board.
// Nodes past the last label rune are left unlabelled.
func (h *Host) startJump() bool {
	cols, rows := h.surface.Grid.Size()
	view := h.engine.View()
	h.labels = h.labels[:0]
	for _, n := range h.engine.Scene().Nodes {
		if len(h.labels) == len(jumpChars) {
			break
		}
		p := view.ToScreen(scene.NodeBounds(n).Min())
		x := int(math.Floor(p.X / h.cfg.CellWidth))
		y := int(math.Floor(p.Y / h.cfg.CellHeight))
		if x < 0 || y < 0 || x >= cols || y >= rows {
			continue
		}
		h.labels = append(h.labels, jumpLabel{key: rune(jumpChars[len(h.labels)]), id: n.ID, x: x, y: y})
	}
	if len(h.labels) == 0 {
		h.status = "no nodes in view"
		return false
	}
	h.mode = modeJump
	h.status = "jump: press a label, Esc to cancel"
	return true
}

// jump selects the node labelled r and leaves jump mode.
func (h *Host) jump(r rune) {
	h.mode = modeNormal
	h.status = ""
	for _, l := range h.labels {
		if l.key == r {
			h.engine.Select(l.id)
			return
		}
	}
}

func (h *Host) drawLabels() {
	style := tcell.StyleDefault.Reverse(true).Bold(true)
	for _, l := range h.labels {
		h.screen.SetContent(l.x, l.y, l.key, nil, style)
	}
}
