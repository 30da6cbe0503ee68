// Package graph contains the node and relation records shared by every board.
package graph

import (
	"slices"

	"graphboard/geometry"
)

// Kind selects the rendering and layout rules for a node.
type Kind string

// Node kinds
const (
	KindRect     Kind = "rect"     // Free canvas rectangle
	KindEllipse  Kind = "ellipse"  // Free canvas ellipse
	KindText     Kind = "text"     // Free canvas text box
	KindPath     Kind = "path"     // Freehand pen stroke
	KindEvidence Kind = "evidence" // Evidence board card
	KindPerson   Kind = "person"   // Family tree member, positioned by layout
)

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindRect, KindEllipse, KindText, KindPath, KindEvidence, KindPerson}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds(), k)
}

// ComputedPosition reports whether nodes of this kind are positioned by the
// layout engine rather than by their stored coordinates.
func (k Kind) ComputedPosition() bool {
	return k == KindPerson
}

// Content is the kind-specific attribute bag of a node.
type Content struct {
	X           float64          `json:"x,omitempty" yaml:"x,omitempty"`
	Y           float64          `json:"y,omitempty" yaml:"y,omitempty"`
	Width       float64          `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64          `json:"height,omitempty" yaml:"height,omitempty"`
	Points      []geometry.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Text        string           `json:"text,omitempty" yaml:"text,omitempty"`
	Fill        string           `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke      string           `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth float64          `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`

	// Evidence board
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	EvidenceType string `json:"evidenceType,omitempty" yaml:"evidenceType,omitempty"`

	// Family tree
	Parents []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	Spouse  string   `json:"spouse,omitempty" yaml:"spouse,omitempty"`
}

// Bounds returns the stored rectangle of the content.
func (c Content) Bounds() geometry.Rect {
	return geometry.R(c.X, c.Y, c.Width, c.Height)
}

// Clone returns a deep copy of the content.
func (c Content) Clone() Content {
	c.Points = slices.Clone(c.Points)
	c.Parents = slices.Clone(c.Parents)
	return c
}

// Node is a typed record owned by the store.
type Node struct {
	ID      string   `json:"id" yaml:"id"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Title   string   `json:"title" yaml:"title"`
	Content Content  `json:"content" yaml:"content"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Content = n.Content.Clone()
	n.Tags = slices.Clone(n.Tags)
	return n
}

// HasTag reports whether the node carries tag.
func (n Node) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// Relation is an explicit connection between two nodes. It does not own its
// endpoints; a relation whose endpoint is missing is dangling.
type Relation struct {
	ID       string `json:"id" yaml:"id"`
	FromID   string `json:"fromId" yaml:"fromId"`
	ToID     string `json:"toId" yaml:"toId"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`
	Directed bool   `json:"directed,omitempty" yaml:"directed,omitempty"`
}

// Touches reports whether the relation references id at either end.
func (r Relation) Touches(id string) bool {
	return r.FromID == id || r.ToID == id
}

// Metadata contains optional document metadata.
type Metadata struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Board   Kind   `json:"board,omitempty" yaml:"board,omitempty"`
	Created string `json:"created,omitempty" yaml:"created,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Document is the unit of import and export.
type Document struct {
	Nodes     []Node     `json:"nodes" yaml:"nodes"`
	Relations []Relation `json:"relations" yaml:"relations"`
	Metadata  Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := &Document{
		Nodes:     make([]Node, len(d.Nodes)),
		Relations: slices.Clone(d.Relations),
		Metadata:  d.Metadata,
	}
	for i, n := range d.Nodes {
		clone.Nodes[i] = n.Clone()
	}
	return clone
}
