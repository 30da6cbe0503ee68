// Package interact turns pointer gestures into view changes and graph
// mutations.
package interact

import (
	"math"
	"slices"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/hittest"
	"graphboard/scene"
	"graphboard/viewport"

	"go.uber.org/zap"
)

// WheelStep is the zoom factor applied per wheel notch.
const WheelStep = 1.1

// Graph is the part of the graph model the controller drives.
type Graph interface {
	Node(id string) (graph.Node, bool)
	Selected() string
	Select(id string)
	Busy(id string) bool
	CreateNode(draft graph.Draft) error
	Preview(draft graph.Draft) string
	PreviewPatch(id string, patch graph.Patch)
	CancelPreview(id string)
	CommitDraft(id string)
	Commit(id string, patch graph.Patch)
}

// Controller is the pointer state machine. It must be driven from the UI
// goroutine.
type Controller struct {
	graph  Graph
	view   *viewport.View
	scene  func() *scene.Scene
	logger *zap.Logger

	tool        Tool
	defaultKind graph.Kind
	state       State
}

// New creates a controller. scene returns the scene currently on screen;
// hit testing runs against it so computed positions are honoured.
// defaultKind is the kind created by double-clicking empty space.
func New(g Graph, v *viewport.View, sc func() *scene.Scene, defaultKind graph.Kind, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{graph: g, view: v, scene: sc, defaultKind: defaultKind, logger: logger}
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches tools. The switch is refused mid-gesture.
func (c *Controller) SetTool(t Tool) bool {
	if c.state.Kind != Idle {
		return false
	}
	c.tool = t
	return true
}

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// PointerDown starts a gesture at the screen point p.
func (c *Controller) PointerDown(p geometry.Point) {
	if c.state.Kind != Idle {
		c.logger.Debug("ignoring pointer-down during gesture", zap.Stringer("state", c.state.Kind))
		return
	}
	w := c.view.ToWorld(p)
	sc := c.scene()

	kind, drawing := c.tool.Kind()
	if drawing {
		c.startDrawing(kind, w)
		return
	}

	if corner, ok := hittest.HandleAt(sc, w); ok && c.draggable(sc.Selected, true) {
		c.startDrag(sc, sc.Selected, w, true, corner)
		return
	}

	id, hit := hittest.Test(sc, w)
	switch {
	case hit && id == c.graph.Selected() && c.draggable(id, false):
		c.startDrag(sc, id, w, false, 0)
	case hit:
		c.graph.Select(id)
	default:
		c.graph.Select("")
		c.state = State{Kind: Panning, StartPointer: p, StartPan: c.view.Pan()}
	}
}

// draggable reports whether id may be moved (or resized) now. Nodes with a
// store call in flight and nodes placed by the layout stay put.
func (c *Controller) draggable(id string, resize bool) bool {
	n, ok := c.graph.Node(id)
	if !ok || c.graph.Busy(id) || n.Kind.ComputedPosition() {
		return false
	}
	return !resize || n.Kind != graph.KindPath
}

func (c *Controller) startDrawing(kind graph.Kind, w geometry.Point) {
	draft := graph.NewDraft(kind, w)
	switch kind {
	case graph.KindText:
		draft.Content.Width, draft.Content.Height = graph.TextWidth, graph.TextHeight
	case graph.KindPath:
		draft.Content.X, draft.Content.Y = 0, 0
		draft.Content.Points = []geometry.Point{w}
	}
	id := c.graph.Preview(draft)
	c.graph.Select(id)
	c.state = State{Kind: DrawingShape, ShapeID: id, Start: w}
}

func (c *Controller) startDrag(sc *scene.Scene, id string, w geometry.Point, resize bool, corner hittest.Corner) {
	n, _ := c.graph.Node(id)
	box, _ := sc.Bounds(id)
	c.state = State{
		Kind:     DraggingExistingShape,
		ShapeID:  id,
		Start:    w,
		Snapshot: n,
		Origin:   box,
		Resizing: resize,
		Handle:   corner,
	}
}

// PointerMove advances the current gesture.
func (c *Controller) PointerMove(p geometry.Point) {
	switch c.state.Kind {
	case Panning:
		c.pan(p)
	case DrawingShape:
		c.extend(c.view.ToWorld(p))
	case DraggingExistingShape:
		c.drag(c.view.ToWorld(p))
	}
}

func (c *Controller) pan(p geometry.Point) {
	delta := p.Sub(c.state.StartPointer).Div(c.view.Zoom())
	c.view.SetPan(c.state.StartPan.Add(delta))
}

func (c *Controller) extend(w geometry.Point) {
	id := c.state.ShapeID
	n, ok := c.graph.Node(id)
	if !ok {
		return
	}
	if n.Kind == graph.KindPath {
		pts := n.Content.Points
		if len(pts) > 0 && pts[len(pts)-1] == w {
			return
		}
		pts = append(slices.Clone(pts), w)
		c.graph.PreviewPatch(id, graph.Patch{Points: &pts})
		return
	}
	start := c.state.Start
	c.graph.PreviewPatch(id, graph.Resize(geometry.R(start.X, start.Y, w.X-start.X, w.Y-start.Y)))
}

func (c *Controller) drag(w geometry.Point) {
	s := &c.state
	var patch graph.Patch
	switch {
	case s.Resizing:
		anchor := s.Origin.Corners()[s.Handle.Opposite()]
		patch = graph.Resize(geometry.RectFromPoints(anchor, w))
	case s.Snapshot.Kind == graph.KindPath:
		delta := w.Sub(s.Start)
		pts := make([]geometry.Point, len(s.Snapshot.Content.Points))
		for i, q := range s.Snapshot.Content.Points {
			pts[i] = q.Add(delta)
		}
		patch = graph.Patch{Points: &pts}
	default:
		delta := w.Sub(s.Start)
		patch = graph.MoveTo(s.Snapshot.Content.Bounds().Min().Add(delta))
	}
	s.Patch = patch
	c.graph.PreviewPatch(s.ShapeID, patch)
}

// PointerUp finishes the gesture at p.
func (c *Controller) PointerUp(p geometry.Point) {
	c.finish(p)
}

// PointerLeave finishes the gesture as if released at p.
func (c *Controller) PointerLeave(p geometry.Point) {
	c.finish(p)
}

// finish applies the last position and leaves the active state.
func (c *Controller) finish(p geometry.Point) {
	s := c.state
	switch s.Kind {
	case Panning:
		c.pan(p)
	case DrawingShape:
		w := c.view.ToWorld(p)
		if w != s.Start {
			c.extend(w)
		}
		c.graph.CommitDraft(s.ShapeID)
	case DraggingExistingShape:
		w := c.view.ToWorld(p)
		if w != s.Start {
			c.drag(w)
		}
		if patch := c.state.Patch; !patch.IsZero() {
			c.graph.Commit(s.ShapeID, patch)
		} else {
			c.graph.CancelPreview(s.ShapeID)
		}
	}
	c.state = State{}
}

// DoubleClick creates a node of the default kind when p is over empty space.
func (c *Controller) DoubleClick(p geometry.Point) {
	if c.state.Kind != Idle || c.defaultKind == "" {
		return
	}
	w := c.view.ToWorld(p)
	if _, hit := hittest.Test(c.scene(), w); hit {
		return
	}
	draft := graph.NewDraft(c.defaultKind, w)
	draft.Title = "New " + string(c.defaultKind)
	if err := c.graph.CreateNode(draft); err != nil {
		c.logger.Warn("double-click create rejected", zap.Error(err))
	}
}

// Wheel zooms by WheelStep per notch around the screen point p. Positive
// notches zoom in.
func (c *Controller) Wheel(p geometry.Point, notches float64) {
	if notches == 0 {
		return
	}
	c.view.ZoomAt(math.Pow(WheelStep, notches), p)
}
