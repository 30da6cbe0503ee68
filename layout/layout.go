// Package layout positions family tree members by generation.
package layout

import (
	"graphboard/geometry"
	"graphboard/graph"
)

// Engine computes positions for nodes whose kind has computed positions.
type Engine interface {
	Layout(people []graph.Node) map[string]geometry.Point
}

// Place returns a copy of nodes with the computed positions written into
// their content. Nodes without a computed position are returned unchanged.
func Place(nodes []graph.Node, positions map[string]geometry.Point) []graph.Node {
	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		if p, ok := positions[n.ID]; ok && n.Kind.ComputedPosition() {
			n.Content.X, n.Content.Y = p.X, p.Y
			n.Content.Width, n.Content.Height = graph.PersonWidth, graph.PersonHeight
		}
		out[i] = n
	}
	return out
}
