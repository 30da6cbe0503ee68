package export

import (
	"math"

	"graphboard/canvas"
	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/layout"
	"graphboard/render"
	"graphboard/scene"
	"graphboard/viewport"
)

// Options configures the image exporters.
type Options struct {
	// Margin is the blank border around the board, in world units.
	Margin float64
	// GridSpacing draws the board grid; zero leaves it out.
	GridSpacing float64
	Theme       render.Theme
	Layout      layout.Config
	// Charset of the ascii format.
	Charset canvas.Charset
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Margin: 40, Theme: render.DefaultTheme(), Layout: layout.DefaultConfig()}
}

// minimum image extent so empty boards still produce a valid file
const minExtent = 100

// Frame is a whole board fitted into one image at zoom 1.
type Frame struct {
	Scene  *scene.Scene
	View   *viewport.View
	Width  float64
	Height float64
}

// NewFrame places the document's nodes (people by the generational layout)
// and sizes the frame to their extent plus the margin.
func NewFrame(doc *graph.Document, opts Options) Frame {
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	var people []graph.Node
	for _, n := range doc.Nodes {
		if n.Kind.ComputedPosition() {
			people = append(people, n)
		}
	}
	positions := layout.NewGenerational(opts.Layout).Layout(people)
	nodes := layout.Place(doc.Nodes, positions)
	sc := scene.New(nodes, graph.Edges(nodes, doc.Relations), "")

	extent := sc.Extent()
	v := viewport.New()
	v.SetPan(geometry.Pt(opts.Margin-extent.X, opts.Margin-extent.Y))
	return Frame{
		Scene:  sc,
		View:   v,
		Width:  math.Max(minExtent, math.Ceil(extent.Width+2*opts.Margin)),
		Height: math.Max(minExtent, math.Ceil(extent.Height+2*opts.Margin)),
	}
}

// Draw renders the frame onto s.
func (f Frame) Draw(s render.Surface, opts Options) {
	r := render.New(render.Options{GridSpacing: opts.GridSpacing, Theme: opts.Theme})
	r.Draw(s, f.Scene, f.View)
}
