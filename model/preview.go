package model

import (
	"context"
	"slices"

	"graphboard/graph"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Preview inserts a local-only node built from draft and returns its
// temporary id. It is drawn like any other node until CommitDraft creates
// it in the store or DeleteNode drops it.
func (m *Model) Preview(draft graph.Draft) string {
	id := DraftPrefix + uuid.NewString()
	m.drafts[id] = true
	m.insert(draft.Node(id))
	return id
}

// PreviewPatch applies patch locally without telling the store. The node's
// state before the first preview is kept so it can be restored.
func (m *Model) PreviewPatch(id string, patch graph.Patch) {
	n, ok := m.nodes[id]
	if !ok {
		return
	}
	if _, ok := m.snapshots[id]; !ok && !m.drafts[id] {
		m.snapshots[id] = n.Clone()
	}
	m.nodes[id] = patch.Apply(n)
	if patch.Structural() {
		m.version++
	}
	m.revision++
}

// CancelPreview restores the node to its state before the first preview.
func (m *Model) CancelPreview(id string) {
	snap, ok := m.snapshots[id]
	if !ok {
		return
	}
	delete(m.snapshots, id)
	if _, ok := m.nodes[id]; ok {
		m.nodes[id] = snap
		m.structural()
	}
}

// Commit forwards patch for a previewed node to the store. The preview stays
// visible while the call is in flight; if the store rejects it the node goes
// back to its pre-preview state.
func (m *Model) Commit(id string, patch graph.Patch) {
	m.CommitThen(id, patch, nil)
}

// CommitThen is Commit with done called on the UI goroutine once the store
// answers. done is not called for previews or nodes deleted meanwhile.
func (m *Model) CommitThen(id string, patch graph.Patch, done func(err error)) {
	if m.drafts[id] {
		m.PreviewPatch(id, patch)
		return
	}
	snap, hasSnap := m.snapshots[id]
	delete(m.snapshots, id)
	if n, ok := m.nodes[id]; ok {
		if !hasSnap {
			snap = n.Clone()
		}
		m.nodes[id] = patch.Apply(n)
		m.revision++
	}

	m.issue([]string{id}, func(ctx context.Context) error {
		return m.store.UpdateNode(ctx, id, patch)
	}, func(err error) {
		if _, ok := m.nodes[id]; !ok {
			m.discard(OpUpdateNode, id)
			return
		}
		if err != nil {
			m.nodes[id] = snap
			m.structural()
			m.fail(&StoreFailure{Op: OpUpdateNode, ID: id, Err: err})
		}
		if done != nil {
			done(err)
		}
	})
}

// CommitDraft creates the preview id in the store. On success the preview
// is replaced in place by the stored node, keeping draw order and selection;
// on failure the preview is removed.
func (m *Model) CommitDraft(id string) {
	n, ok := m.nodes[id]
	if !ok || !m.drafts[id] {
		return
	}
	draft := graph.DraftOf(n).Finalize()
	m.nodes[id] = draft.Node(id)
	m.revision++

	var created graph.Node
	m.issue([]string{id}, func(ctx context.Context) (err error) {
		created, err = m.store.CreateNode(ctx, draft)
		return err
	}, func(err error) {
		_, present := m.nodes[id]
		if err != nil {
			if present {
				m.remove(id)
			}
			m.fail(&StoreFailure{Op: OpCreateNode, ID: id, Err: err})
			return
		}
		if !present {
			// Dropped while the create was in flight; remove the orphan.
			m.discard(OpCreateNode, id)
			m.purge(created.ID)
			return
		}
		m.swap(id, created)
	})
}

func (m *Model) swap(draftID string, n graph.Node) {
	i := slices.Index(m.order, draftID)
	if i < 0 {
		return
	}
	m.order[i] = n.ID
	delete(m.nodes, draftID)
	delete(m.drafts, draftID)
	delete(m.snapshots, draftID)
	m.nodes[n.ID] = n
	m.logger.Debug("draft committed", zap.String("draft", draftID), zap.String("id", n.ID))
	m.structural()
	if m.selected == draftID {
		m.setSelected(n.ID)
	}
}

// purge deletes a node the store created after its preview was dropped.
func (m *Model) purge(id string) {
	m.issue([]string{id}, func(ctx context.Context) error {
		return m.store.DeleteNode(ctx, id)
	}, func(err error) {
		if err != nil {
			m.logger.Warn("removing orphaned node", zap.String("id", id), zap.Error(err))
		}
	})
}
