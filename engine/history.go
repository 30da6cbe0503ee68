package engine

import (
	"slices"

	"graphboard/graph"
	"graphboard/model"
)

// DefaultHistory is the number of edits kept for undo.
const DefaultHistory = 50

// Edit is one committed move or resize.
type Edit struct {
	ID     string
	Before graph.Patch
	After  graph.Patch

	seq uint64
}

// History is a bounded undo/redo stack of edits.
type History struct {
	edits   []Edit
	applied int // edits[:applied] are in effect
	max     int
	seq     uint64
}

// NewHistory creates a history keeping at most max edits.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistory
	}
	return &History{max: max}
}

// Record pushes an edit, dropping anything that was undone and the oldest
// edit once the history is full. The returned edit identifies it for Drop.
func (h *History) Record(e Edit) Edit {
	h.seq++
	e.seq = h.seq
	h.edits = append(h.edits[:h.applied], e)
	if len(h.edits) > h.max {
		h.edits = h.edits[1:]
	}
	h.applied = len(h.edits)
	return e
}

// Drop removes e, typically because the store refused to write it.
func (h *History) Drop(e Edit) {
	i := slices.IndexFunc(h.edits, func(x Edit) bool { return x.seq == e.seq })
	if i < 0 {
		return
	}
	h.edits = slices.Delete(h.edits, i, i+1)
	if i < h.applied {
		h.applied--
	}
}

func (h *History) CanUndo() bool { return h.applied > 0 }

func (h *History) CanRedo() bool { return h.applied < len(h.edits) }

// Undo returns the edit to revert.
func (h *History) Undo() (Edit, bool) {
	if !h.CanUndo() {
		return Edit{}, false
	}
	h.applied--
	return h.edits[h.applied], true
}

// Redo returns the edit to apply again.
func (h *History) Redo() (Edit, bool) {
	if !h.CanRedo() {
		return Edit{}, false
	}
	h.applied++
	return h.edits[h.applied-1], true
}

// Forget drops every edit of a deleted node.
func (h *History) Forget(id string) {
	kept := h.edits[:0]
	applied := 0
	for i, e := range h.edits {
		if e.ID == id {
			continue
		}
		if i < h.applied {
			applied++
		}
		kept = append(kept, e)
	}
	h.edits, h.applied = kept, applied
}

// Len is the number of edits held.
func (h *History) Len() int { return len(h.edits) }

// revert builds the patch that sets every field p touches back to its value
// in n. Only the geometry fields written by drags are covered.
func revert(n graph.Node, p graph.Patch) graph.Patch {
	var r graph.Patch
	c := n.Content
	if p.X != nil {
		r.X = graph.Ptr(c.X)
	}
	if p.Y != nil {
		r.Y = graph.Ptr(c.Y)
	}
	if p.Width != nil {
		r.Width = graph.Ptr(c.Width)
	}
	if p.Height != nil {
		r.Height = graph.Ptr(c.Height)
	}
	if p.Points != nil {
		r.Points = graph.Ptr(slices.Clone(c.Points))
	}
	return r
}

// recorder is the model as the controller sees it. It remembers each node's
// state before its first preview so committed drags can be undone.
type recorder struct {
	*model.Model
	history *History
	before  map[string]graph.Node
}

func newRecorder(m *model.Model, h *History) *recorder {
	return &recorder{Model: m, history: h, before: make(map[string]graph.Node)}
}

func (r *recorder) PreviewPatch(id string, patch graph.Patch) {
	if _, ok := r.before[id]; !ok && !r.IsDraft(id) {
		if n, ok := r.Node(id); ok {
			r.before[id] = n.Clone()
		}
	}
	r.Model.PreviewPatch(id, patch)
}

func (r *recorder) CancelPreview(id string) {
	delete(r.before, id)
	r.Model.CancelPreview(id)
}

func (r *recorder) Commit(id string, patch graph.Patch) {
	n, ok := r.before[id]
	delete(r.before, id)
	if !ok && !r.IsDraft(id) {
		n, ok = r.Node(id)
	}
	if !ok {
		r.Model.Commit(id, patch)
		return
	}
	edit := r.history.Record(Edit{ID: id, Before: revert(n, patch), After: patch})
	r.Model.CommitThen(id, patch, func(err error) {
		if err != nil {
			r.history.Drop(edit)
		}
	})
}
