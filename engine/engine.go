// Package engine wires the graph model, view, layout, renderer and
// interaction controller into one board.
package engine

import (
	"context"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/interact"
	"graphboard/layout"
	"graphboard/metrics"
	"graphboard/model"
	"graphboard/render"
	"graphboard/scene"
	"graphboard/viewport"

	"go.uber.org/zap"
)

// Options configures an Engine.
type Options struct {
	Layout   layout.Config
	Renderer render.Options
	// DefaultKind is created by double-clicking empty space; empty disables it.
	DefaultKind graph.Kind
	MinZoom     float64
	MaxZoom     float64
	// History is the number of edits kept for undo; zero means DefaultHistory.
	History int
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// frameKey captures everything a frame depends on.
type frameKey struct {
	revision uint64
	view     viewport.State
	selected string
	width    float64
	height   float64
}

// Engine is one board instance. All methods must be called from the UI
// goroutine.
type Engine struct {
	model    *model.Model
	view     *viewport.View
	layout   *layout.Cached
	renderer *render.Renderer
	ctl      *interact.Controller
	history  *History
	surface  render.Surface
	logger   *zap.Logger

	scene    *scene.Scene
	sceneRev uint64
	drawn    bool
	last     frameKey
	frames   int

	onSelect func(id string)
	onNotify func(Notice)
}

// New creates an engine over m that draws to s.
func New(m *model.Model, s render.Surface, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.DefaultConfig()
	}
	if opts.Renderer.Metrics == nil {
		opts.Renderer.Metrics = opts.Metrics
	}
	if opts.Renderer.Logger == nil {
		opts.Renderer.Logger = opts.Logger
	}
	e := &Engine{
		model:    m,
		view:     viewport.NewWithLimits(opts.MinZoom, opts.MaxZoom),
		layout:   layout.NewCached(layout.NewGenerational(opts.Layout), opts.Metrics),
		renderer: render.New(opts.Renderer),
		history:  NewHistory(opts.History),
		surface:  s,
		logger:   opts.Logger,
	}
	e.ctl = interact.New(newRecorder(m, e.history), e.view, e.Scene, opts.DefaultKind, opts.Logger)
	m.OnSelect(func(id string) {
		if e.onSelect != nil {
			e.onSelect(id)
		}
	})
	m.OnRemove(e.history.Forget)
	m.OnFailure(func(f *model.StoreFailure) {
		if e.onNotify != nil {
			e.onNotify(noticeFor(f))
		}
	})
	return e
}

// Model returns the engine's graph model.
func (e *Engine) Model() *model.Model { return e.model }

// View returns the engine's view transform.
func (e *Engine) View() *viewport.View { return e.view }

// Controller returns the interaction controller.
func (e *Engine) Controller() *interact.Controller { return e.ctl }

// Surface returns the surface frames are drawn to.
func (e *Engine) Surface() render.Surface { return e.surface }

// Frames returns how many frames have been drawn.
func (e *Engine) Frames() int { return e.frames }

// OnSelect registers the callback fired whenever the selection changes.
func (e *Engine) OnSelect(fn func(id string)) { e.onSelect = fn }

// OnNotify registers the callback for user-facing failure notices.
func (e *Engine) OnNotify(fn func(Notice)) { e.onNotify = fn }

// Load fetches the board from the store and draws it.
func (e *Engine) Load(ctx context.Context) error {
	err := e.model.Load(ctx)
	e.refresh()
	return err
}

// Scene returns the scene for the current model state. People are placed by
// the layout engine; everything else keeps its stored position.
func (e *Engine) Scene() *scene.Scene {
	if e.scene != nil && e.sceneRev == e.model.Revision() {
		return e.scene
	}
	nodes := e.model.Nodes()
	positions := e.layout.Layout(e.model.Nodes(graph.KindPerson))
	e.scene = scene.New(layout.Place(nodes, positions), e.model.Edges(), e.model.Selected())
	e.sceneRev = e.model.Revision()
	return e.scene
}

// HandlePointer feeds a pointer event to the controller and redraws if
// anything visible changed.
func (e *Engine) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.ctl.PointerDown(ev.Point)
	case PointerMove:
		e.ctl.PointerMove(ev.Point)
	case PointerUp:
		e.ctl.PointerUp(ev.Point)
	case PointerLeave:
		e.ctl.PointerLeave(ev.Point)
	case DoubleClick:
		e.ctl.DoubleClick(ev.Point)
	case Wheel:
		e.ctl.Wheel(ev.Point, ev.Delta)
	}
	e.refresh()
}

// SetTool switches the active tool. It is refused mid-gesture.
func (e *Engine) SetTool(t interact.Tool) bool {
	return e.ctl.SetTool(t)
}

// DeleteSelected deletes the selected node, if any.
func (e *Engine) DeleteSelected() {
	id := e.model.Selected()
	if id == "" {
		return
	}
	e.model.DeleteNode(id)
	e.refresh()
}

// Select selects the node with id; an empty id clears the selection.
func (e *Engine) Select(id string) {
	e.model.Select(id)
	e.refresh()
}

// History returns the undo history of committed moves and resizes.
func (e *Engine) History() *History { return e.history }

// Undo reverts the most recent committed move or resize. It reports false
// when there is nothing to undo or the gesture in progress forbids it.
func (e *Engine) Undo() bool {
	if e.ctl.State().Kind != interact.Idle {
		return false
	}
	edit, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.apply(edit, edit.Before)
	return true
}

// Redo applies the most recently undone edit again.
func (e *Engine) Redo() bool {
	if e.ctl.State().Kind != interact.Idle {
		return false
	}
	edit, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.apply(edit, edit.After)
	return true
}

// apply writes one side of edit. An edit the store refuses is dropped, so
// the history never holds a step that cannot be replayed.
func (e *Engine) apply(edit Edit, patch graph.Patch) {
	if _, ok := e.model.Node(edit.ID); !ok {
		e.logger.Debug("history edit for missing node", zap.String("id", edit.ID))
		return
	}
	e.model.CommitThen(edit.ID, patch, func(err error) {
		if err != nil {
			e.history.Drop(edit)
		}
	})
	e.refresh()
}

// ResetView returns to zoom 1 with no pan.
func (e *Engine) ResetView() {
	e.view.Reset()
	e.refresh()
}

// PanBy moves the view by a screen-space delta.
func (e *Engine) PanBy(screenDelta geometry.Point) {
	e.view.PanBy(screenDelta)
	e.refresh()
}

// ZoomAt scales the zoom by factor keeping the world point under the screen
// point anchor fixed.
func (e *Engine) ZoomAt(factor float64, anchor geometry.Point) {
	e.view.ZoomAt(factor, anchor)
	e.refresh()
}

// Pump applies finished store calls and redraws if they changed anything.
func (e *Engine) Pump() int {
	n := e.model.Pump()
	if n > 0 {
		e.refresh()
	}
	return n
}

// Settle waits for every in-flight store call and draws the result.
func (e *Engine) Settle(ctx context.Context) error {
	err := e.model.Settle(ctx)
	e.refresh()
	return err
}

// Resize swaps the surface, typically after the host window changed size.
func (e *Engine) Resize(s render.Surface) {
	e.surface = s
	e.refresh()
}

// Redraw draws a frame unconditionally.
func (e *Engine) Redraw() {
	e.renderer.Draw(e.surface, e.Scene(), e.view)
	e.last = e.key()
	e.drawn = true
	e.frames++
}

func (e *Engine) key() frameKey {
	w, h := e.surface.Size()
	return frameKey{
		revision: e.model.Revision(),
		view:     e.view.State(),
		selected: e.model.Selected(),
		width:    w,
		height:   h,
	}
}

// refresh redraws when the model, view or selection moved on since the last
// frame.
func (e *Engine) refresh() {
	if e.drawn && e.key() == e.last {
		return
	}
	e.Redraw()
}
