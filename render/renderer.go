// Package render draws a scene onto an immediate-mode surface.
package render

import (
	"math"
	"strconv"
	"strings"
	"time"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/metrics"
	"graphboard/scene"
	"graphboard/viewport"

	"go.uber.org/zap"
)

// Edge and card geometry in world units.
const (
	ArrowLength    = 10
	ArrowHalfAngle = 30 // degrees
	CardPadding    = 8
	SwatchSize     = 12
	BadgeRadius    = 10
	FontSize       = 12
)

// Grid spacings used by the two board styles.
const (
	CanvasGridSpacing = 40
	BoardGridSpacing  = 20
)

// Options configures a Renderer.
type Options struct {
	// GridSpacing is the world distance between grid lines; zero hides the grid.
	GridSpacing float64
	Theme       Theme
	Metrics     *metrics.Collector
	Logger      *zap.Logger
}

// Renderer draws frames. It keeps no per-frame state and may be reused.
type Renderer struct {
	opts Options
}

// New creates a renderer. A zero Theme is replaced by DefaultTheme.
func New(opts Options) *Renderer {
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Renderer{opts: opts}
}

// Theme returns the renderer's colours.
func (r *Renderer) Theme() Theme { return r.opts.Theme }

// SetGridSpacing changes the grid interval; zero hides the grid.
func (r *Renderer) SetGridSpacing(spacing float64) { r.opts.GridSpacing = spacing }

// Draw renders one frame: background, grid, every edge, then every node in
// scene order so edges always sit behind nodes.
func (r *Renderer) Draw(s Surface, sc *scene.Scene, v *viewport.View) {
	start := time.Now()
	defer r.opts.Metrics.ObserveRedraw(start)

	w, h := s.Size()
	s.Clear(r.opts.Theme.Background)
	s.SetTransform(Transform{Scale: v.Zoom(), Translate: v.Pan()})

	hairline := 1 / v.Zoom()
	r.drawGrid(s, v.Visible(w, h), hairline)

	skipped := 0
	for _, e := range sc.Edges {
		if !r.drawEdge(s, sc, e, hairline) {
			skipped++
		}
	}
	if skipped > 0 {
		r.opts.Logger.Debug("skipped dangling edges", zap.Int("count", skipped))
	}

	for _, n := range sc.Nodes {
		r.drawNode(s, sc, n)
	}
}

func (r *Renderer) drawGrid(s Surface, visible geometry.Rect, width float64) {
	spacing := r.opts.GridSpacing
	if spacing <= 0 {
		return
	}
	st := Style{Stroke: r.opts.Theme.Grid, StrokeWidth: width}
	lo, hi := visible.Min(), visible.Max()
	for x := math.Ceil(lo.X/spacing) * spacing; x <= hi.X; x += spacing {
		s.Line(geometry.Pt(x, lo.Y), geometry.Pt(x, hi.Y), st)
	}
	for y := math.Ceil(lo.Y/spacing) * spacing; y <= hi.Y; y += spacing {
		s.Line(geometry.Pt(lo.X, y), geometry.Pt(hi.X, y), st)
	}
}

// anchor returns where an edge leaves box on its way to toward.
func anchor(box geometry.Rect, toward geometry.Point) geometry.Point {
	if box.Empty() {
		return box.Center()
	}
	return geometry.ClipToRect(box, toward)
}

// drawEdge reports false when an endpoint is missing from the scene.
func (r *Renderer) drawEdge(s Surface, sc *scene.Scene, e graph.Edge, width float64) bool {
	from, okFrom := sc.Bounds(e.From)
	to, okTo := sc.Bounds(e.To)
	if !okFrom || !okTo {
		return false
	}

	color := e.Color
	if color == "" {
		color = r.opts.Theme.Edge
	}
	st := Style{Stroke: color, StrokeWidth: max(width, 1.5), Dashed: e.Kind == graph.EdgeSpouse}

	a := anchor(from, to.Center())
	b := anchor(to, from.Center())
	s.Line(a, b, st)

	if e.Directed && e.Kind != graph.EdgeSpouse && !a.Near(b, 1e-9) {
		left, right := geometry.Arrowhead(b, geometry.Angle(a, b), ArrowLength, geometry.Radians(ArrowHalfAngle))
		s.Path([]geometry.Point{left, b, right}, true, Style{Fill: color, Stroke: color, StrokeWidth: st.StrokeWidth})
	}
	if e.Label != "" {
		s.Text(geometry.Midpoint(a, b).Add(geometry.Pt(4, -4)), Truncate(e.Label, DescriptionBudget),
			Style{Fill: r.opts.Theme.Muted, FontSize: FontSize - 2})
	}
	return true
}

func contentStyle(c graph.Content) Style {
	return Style{Fill: c.Fill, Stroke: c.Stroke, StrokeWidth: c.StrokeWidth}
}

func (r *Renderer) drawNode(s Surface, sc *scene.Scene, n graph.Node) {
	selected := n.ID == sc.Selected
	box := scene.NodeBounds(n)
	st := contentStyle(n.Content)
	if selected && st.Fill != "" {
		st.Fill = Tint(st.Fill, r.opts.Theme.Selection, 0.12)
	}

	switch n.Kind {
	case graph.KindRect:
		s.Rect(box, st)
	case graph.KindEllipse:
		s.Ellipse(box, st)
	case graph.KindText:
		r.drawText(s, n, box)
	case graph.KindPath:
		if len(n.Content.Points) > 1 {
			s.Path(n.Content.Points, false, Style{Stroke: st.Stroke, StrokeWidth: max(st.StrokeWidth, 1)})
		}
	case graph.KindEvidence:
		r.drawEvidence(s, n, box, st, sc.Degree[n.ID])
	case graph.KindPerson:
		r.drawPerson(s, n, box, st)
	default:
		s.Rect(box, st)
	}

	if selected {
		r.drawSelection(s, box, st.StrokeWidth)
	}
}

func (r *Renderer) textStyle() Style {
	return Style{Fill: r.opts.Theme.Text, FontSize: FontSize}
}

func (r *Renderer) drawText(s Surface, n graph.Node, box geometry.Rect) {
	text := n.Content.Text
	if text == "" {
		text = n.Title
	}
	if text == "" {
		return
	}
	st := r.textStyle()
	if n.Content.Stroke != "" {
		st.Fill = n.Content.Stroke
	}
	// One line per stored line, clipped to the box height.
	lineHeight := FontSize * 1.4
	for i, line := range strings.Split(text, "\n") {
		y := box.Y + FontSize + float64(i)*lineHeight
		if box.Height > 0 && y > box.Y+box.Height {
			break
		}
		s.Text(geometry.Pt(box.X+2, y), line, st)
	}
}

func (r *Renderer) drawEvidence(s Surface, n graph.Node, box geometry.Rect, st Style, degree int) {
	s.Rect(box, st)

	swatch := geometry.R(box.X+CardPadding, box.Y+CardPadding, SwatchSize, SwatchSize)
	s.Rect(swatch, Style{Fill: EvidenceColor(n.Content.EvidenceType)})

	title := r.textStyle()
	title.Bold = true
	s.Text(geometry.Pt(swatch.X+SwatchSize+6, box.Y+CardPadding+FontSize-2), Truncate(n.Title, TitleBudget), title)

	if n.Content.Description != "" {
		desc := r.textStyle()
		desc.Fill = r.opts.Theme.Muted
		s.Text(geometry.Pt(box.X+CardPadding, box.Y+CardPadding+SwatchSize+FontSize+6),
			Truncate(n.Content.Description, DescriptionBudget), desc)
	}

	if degree > 0 {
		corner := geometry.Pt(box.X+box.Width, box.Y)
		badge := geometry.R(corner.X-BadgeRadius, corner.Y-BadgeRadius, 2*BadgeRadius, 2*BadgeRadius)
		s.Ellipse(badge, Style{Fill: r.opts.Theme.Badge})
		label := strconv.Itoa(degree)
		s.Text(geometry.Pt(corner.X-float64(Width(label))*3, corner.Y+4), label,
			Style{Fill: "#ffffff", FontSize: FontSize - 2, Bold: true})
	}
}

func (r *Renderer) drawPerson(s Surface, n graph.Node, box geometry.Rect, st Style) {
	s.Rect(box, st)
	title := r.textStyle()
	title.Bold = true
	s.Text(geometry.Pt(box.X+CardPadding+2, box.Y+box.Height/2-2), Truncate(n.Title, TitleBudget), title)
	if len(n.Tags) > 0 {
		tags := r.textStyle()
		tags.Fill = r.opts.Theme.Muted
		tags.FontSize = FontSize - 2
		s.Text(geometry.Pt(box.X+CardPadding+2, box.Y+box.Height/2+FontSize+2),
			Truncate(strings.Join(n.Tags, ", "), TagBudget), tags)
	}
}

func (r *Renderer) drawSelection(s Surface, box geometry.Rect, strokeWidth float64) {
	sel := r.opts.Theme.Selection
	s.Rect(box, Style{Stroke: sel, StrokeWidth: 2 * max(strokeWidth, 1)})
	for _, h := range scene.Handles(box) {
		s.Rect(h, Style{Fill: "#ffffff", Stroke: sel, StrokeWidth: 1})
	}
}
