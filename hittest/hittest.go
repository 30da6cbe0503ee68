// Package hittest resolves world points to the nodes drawn under them.
package hittest

import (
	"graphboard/geometry"
	"graphboard/scene"
)

// Corner identifies a selection handle, clockwise from top-left.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Opposite returns the corner diagonally across.
func (c Corner) Opposite() Corner {
	return (c + 2) % 4
}

// Test returns the topmost node whose box contains p. Nodes are scanned
// from the last drawn to the first, so the one painted on top wins. Boxes
// are inclusive on every edge; boxes with zero width or height never match.
func Test(sc *scene.Scene, p geometry.Point) (string, bool) {
	for i := len(sc.Nodes) - 1; i >= 0; i-- {
		n := sc.Nodes[i]
		if scene.NodeBounds(n).Contains(p) {
			return n.ID, true
		}
	}
	return "", false
}

// HandleAt reports which corner handle of the selected node contains p.
func HandleAt(sc *scene.Scene, p geometry.Point) (Corner, bool) {
	if sc.Selected == "" {
		return 0, false
	}
	box, ok := sc.Bounds(sc.Selected)
	if !ok || box.Empty() {
		return 0, false
	}
	for i, h := range scene.Handles(box) {
		if h.Contains(p) {
			return Corner(i), true
		}
	}
	return 0, false
}
