// Package scene is the per-frame snapshot the renderer draws and the hit
// tester queries: placed nodes in draw order plus the unified edge list.
package scene

import (
	"graphboard/geometry"
	"graphboard/graph"
)

// HandleSize is the world-space side of a selection corner handle.
const HandleSize = 8

// Scene is immutable once built.
type Scene struct {
	Nodes    []graph.Node
	Edges    []graph.Edge
	Selected string
	Degree   map[string]int

	index map[string]int
}

// New builds a scene. nodes must already carry their final positions.
func New(nodes []graph.Node, edges []graph.Edge, selected string) *Scene {
	s := &Scene{
		Nodes:  nodes,
		Edges:  edges,
		Degree: graph.Degree(edges),
		index:  make(map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		s.index[n.ID] = i
	}
	if _, ok := s.index[selected]; ok {
		s.Selected = selected
	}
	return s
}

// Node returns the placed node with id.
func (s *Scene) Node(id string) (graph.Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return graph.Node{}, false
	}
	return s.Nodes[i], true
}

// Bounds returns the normalised world rectangle of id. Freehand paths use
// the bounding box of their points.
func (s *Scene) Bounds(id string) (geometry.Rect, bool) {
	n, ok := s.Node(id)
	if !ok {
		return geometry.Rect{}, false
	}
	return NodeBounds(n), true
}

// NodeBounds returns the normalised world rectangle of n.
func NodeBounds(n graph.Node) geometry.Rect {
	if n.Kind == graph.KindPath && len(n.Content.Points) > 0 {
		return geometry.Bounds(n.Content.Points)
	}
	return n.Content.Bounds().Normalize()
}

// Handles returns the four corner handles of r, clockwise from top-left.
func Handles(r geometry.Rect) [4]geometry.Rect {
	var out [4]geometry.Rect
	for i, c := range r.Normalize().Corners() {
		out[i] = geometry.R(c.X-HandleSize/2, c.Y-HandleSize/2, HandleSize, HandleSize)
	}
	return out
}

// Extent returns the union of every node's bounds, or an empty rect.
func (s *Scene) Extent() geometry.Rect {
	var pts []geometry.Point
	for _, n := range s.Nodes {
		b := NodeBounds(n)
		pts = append(pts, b.Min(), b.Max())
	}
	return geometry.Bounds(pts)
}
