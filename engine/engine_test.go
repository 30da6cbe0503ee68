package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"graphboard/engine"
	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/interact"
	"graphboard/metrics"
	"graphboard/model"
	"graphboard/render"
	"graphboard/store"
	"graphboard/store/storetest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func newEngine(t *testing.T, s store.Store, m *metrics.Collector) (*engine.Engine, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder(800, 600)
	mdl := model.New(s, model.Options{Metrics: m})
	e := engine.New(mdl, rec, engine.Options{DefaultKind: graph.KindRect, Metrics: m})
	require.NoError(t, e.Load(ctx(t)))
	return e, rec
}

func person(title string, parents ...string) graph.Draft {
	d := graph.Draft{Kind: graph.KindPerson, Title: title, Content: graph.Defaults(graph.KindPerson)}
	d.Content.Parents = parents
	return d
}

func TestRedrawsOnlyOnChange(t *testing.T) {
	e, _ := newEngine(t, store.NewMemory(), nil)
	assert.Equal(t, 1, e.Frames())

	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerMove, Point: geometry.Pt(10, 10)})
	assert.Equal(t, 1, e.Frames())

	e.HandlePointer(engine.PointerEvent{Kind: engine.Wheel, Point: geometry.Pt(10, 10), Delta: 1})
	assert.Equal(t, 2, e.Frames())

	e.ResetView()
	assert.Equal(t, 3, e.Frames())
	e.ResetView()
	assert.Equal(t, 3, e.Frames())
}

func TestDrawnRectAppearsAfterConfirmation(t *testing.T) {
	e, rec := newEngine(t, store.NewMemory(), nil)
	require.True(t, e.SetTool(interact.ToolRect))

	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerDown, Point: geometry.Pt(100, 100)})
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerMove, Point: geometry.Pt(200, 150)})
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerUp, Point: geometry.Pt(200, 150)})
	require.NoError(t, e.Settle(ctx(t)))

	nodes := e.Model().Nodes()
	require.Len(t, nodes, 1)
	assert.False(t, e.Model().IsDraft(nodes[0].ID))

	rec.Reset()
	e.Redraw()
	found := rec.Index(func(op render.Op) bool {
		return op.Kind == render.OpRect && op.Rect == geometry.R(100, 100, 100, 50)
	})
	assert.GreaterOrEqual(t, found, 0)
}

func TestFamilyTreeIsLaidOut(t *testing.T) {
	s := store.NewMemory()
	ann, err := s.CreateNode(context.Background(), person("Ann"))
	require.NoError(t, err)
	bob, err := s.CreateNode(context.Background(), person("Bob", ann.ID))
	require.NoError(t, err)

	e, _ := newEngine(t, s, nil)
	sc := e.Scene()

	box, ok := sc.Bounds(ann.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.R(100, 100, graph.PersonWidth, graph.PersonHeight), box)

	box, ok = sc.Bounds(bob.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.R(100, 250, graph.PersonWidth, graph.PersonHeight), box)
	require.Len(t, sc.Edges, 1)
	assert.Equal(t, graph.EdgeParentChild, sc.Edges[0].Kind)
}

func TestLayoutCacheSurvivesNonStructuralChanges(t *testing.T) {
	s := store.NewMemory()
	ann, err := s.CreateNode(context.Background(), person("Ann"))
	require.NoError(t, err)

	m := metrics.NewCollector("test")
	e, _ := newEngine(t, s, m)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutMisses))

	e.HandlePointer(engine.PointerEvent{Kind: engine.Wheel, Point: geometry.Pt(0, 0), Delta: 2})
	e.Model().UpdateNode(ann.ID, graph.Patch{Title: graph.Ptr("Anne")})
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LayoutHits))

	require.NoError(t, e.Model().CreateNode(person("Cid", ann.ID)))
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LayoutMisses))
}

func TestFailureBecomesNotice(t *testing.T) {
	f := storetest.NewFaulty(store.NewMemory())
	e, _ := newEngine(t, f, nil)

	var notices []engine.Notice
	e.OnNotify(func(n engine.Notice) { notices = append(notices, n) })

	f.FailNext(storetest.OpCreateNode, errors.New("disk full"))
	e.HandlePointer(engine.PointerEvent{Kind: engine.DoubleClick, Point: geometry.Pt(50, 50)})
	require.NoError(t, e.Settle(ctx(t)))

	require.Len(t, notices, 1)
	assert.Equal(t, "Couldn't create the item; try again", notices[0].Message)
	assert.Equal(t, model.OpCreateNode, notices[0].Failure.Op)
	assert.Zero(t, e.Model().Len())
}

func TestDeleteSelected(t *testing.T) {
	s := store.NewMemory()
	d := graph.NewDraft(graph.KindRect, geometry.Pt(0, 0))
	d.Content.Width, d.Content.Height = 50, 50
	n, err := s.CreateNode(context.Background(), d)
	require.NoError(t, err)

	e, _ := newEngine(t, s, nil)
	var selections []string
	e.OnSelect(func(id string) { selections = append(selections, id) })

	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerDown, Point: geometry.Pt(10, 10)})
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerUp, Point: geometry.Pt(10, 10)})
	require.Equal(t, n.ID, e.Model().Selected())

	e.DeleteSelected()
	assert.Equal(t, 1, e.Model().Len(), "removed only once the store confirms")
	require.NoError(t, e.Settle(ctx(t)))

	assert.Zero(t, e.Model().Len())
	assert.Equal(t, []string{n.ID, ""}, selections)
}

func boxDraft(x, y, w, h float64) graph.Draft {
	d := graph.NewDraft(graph.KindRect, geometry.Pt(x, y))
	d.Content.Width, d.Content.Height = w, h
	return d
}

func drag(e *engine.Engine, from, to geometry.Point) {
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerDown, Point: from})
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerMove, Point: to})
	e.HandlePointer(engine.PointerEvent{Kind: engine.PointerUp, Point: to})
}

func storedBounds(t *testing.T, s store.Store) geometry.Rect {
	t.Helper()
	nodes, err := s.ListNodes(ctx(t))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	return nodes[0].Content.Bounds()
}

func TestUndoRedoMove(t *testing.T) {
	s := store.NewMemory()
	_, err := s.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, s, nil)
	assert.False(t, e.Undo(), "nothing to undo yet")

	// Select, then drag the selected node.
	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	drag(e, geometry.Pt(10, 10), geometry.Pt(30, 40))
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(20, 30, 100, 50), storedBounds(t, s))
	assert.Equal(t, 1, e.History().Len())

	require.True(t, e.Undo())
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(0, 0, 100, 50), storedBounds(t, s))
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(20, 30, 100, 50), storedBounds(t, s))
	assert.False(t, e.Redo())
}

func TestUndoResize(t *testing.T) {
	s := store.NewMemory()
	_, err := s.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, s, nil)

	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	drag(e, geometry.Pt(100, 50), geometry.Pt(150, 80))
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(0, 0, 150, 80), storedBounds(t, s))

	require.True(t, e.Undo())
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(0, 0, 100, 50), storedBounds(t, s))
}

func TestDeleteForgetsHistory(t *testing.T) {
	s := store.NewMemory()
	_, err := s.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, s, nil)

	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	drag(e, geometry.Pt(10, 10), geometry.Pt(30, 40))
	e.DeleteSelected()
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, 0, e.History().Len())
	assert.False(t, e.Undo())
}

func TestHistoryIsBounded(t *testing.T) {
	h := engine.NewHistory(2)
	for _, id := range []string{"a", "b", "c"} {
		h.Record(engine.Edit{ID: id})
	}
	assert.Equal(t, 2, h.Len())
	edit, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "c", edit.ID)

	// A new edit after an undo drops the undone one.
	h.Record(engine.Edit{ID: "d"})
	assert.False(t, h.CanRedo())
	edit, _ = h.Undo()
	assert.Equal(t, "d", edit.ID)
	edit, _ = h.Undo()
	assert.Equal(t, "b", edit.ID)
	assert.False(t, h.CanUndo())

	h.Forget("b")
	assert.Equal(t, 1, h.Len())
	edit, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "d", edit.ID)
}

func TestRefusedMoveLeavesNoUndoStep(t *testing.T) {
	f := storetest.NewFaulty(store.NewMemory())
	_, err := f.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, f, nil)

	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	f.FailNext(storetest.OpUpdateNode, errors.New("read only"))
	drag(e, geometry.Pt(10, 10), geometry.Pt(30, 40))
	assert.Equal(t, 1, e.History().Len())
	require.NoError(t, e.Settle(ctx(t)))

	assert.Equal(t, 0, e.History().Len())
	assert.False(t, e.Undo())
	assert.Equal(t, geometry.R(0, 0, 100, 50), storedBounds(t, f))
}

func TestRefusedUndoDropsEdit(t *testing.T) {
	f := storetest.NewFaulty(store.NewMemory())
	_, err := f.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, f, nil)

	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	drag(e, geometry.Pt(10, 10), geometry.Pt(30, 40))
	require.NoError(t, e.Settle(ctx(t)))

	f.FailNext(storetest.OpUpdateNode, errors.New("read only"))
	require.True(t, e.Undo())
	require.NoError(t, e.Settle(ctx(t)))

	assert.Equal(t, 0, e.History().Len())
	assert.False(t, e.Redo())
	assert.Equal(t, geometry.R(20, 30, 100, 50), storedBounds(t, f))
}

func TestRefusedDeleteKeepsHistory(t *testing.T) {
	f := storetest.NewFaulty(store.NewMemory())
	_, err := f.CreateNode(ctx(t), boxDraft(0, 0, 100, 50))
	require.NoError(t, err)
	e, _ := newEngine(t, f, nil)

	drag(e, geometry.Pt(10, 10), geometry.Pt(10, 10))
	drag(e, geometry.Pt(10, 10), geometry.Pt(30, 40))
	f.FailNext(storetest.OpDeleteNode, errors.New("locked"))
	e.DeleteSelected()
	require.NoError(t, e.Settle(ctx(t)))

	assert.Equal(t, 1, e.Model().Len())
	assert.Equal(t, 1, e.History().Len())
	require.True(t, e.Undo())
	require.NoError(t, e.Settle(ctx(t)))
	assert.Equal(t, geometry.R(0, 0, 100, 50), storedBounds(t, f))
}

func TestHistoryDrop(t *testing.T) {
	h := engine.NewHistory(0)
	a := h.Record(engine.Edit{ID: "a"})
	b := h.Record(engine.Edit{ID: "b"})
	h.Record(engine.Edit{ID: "c"})
	_, _ = h.Undo()

	h.Drop(a)
	h.Drop(a)
	assert.Equal(t, 2, h.Len())
	edit, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, b.ID, edit.ID)
	assert.False(t, h.CanUndo())

	h.Drop(b)
	edit, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "c", edit.ID)
}
