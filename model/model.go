// Package model keeps the in-memory graph in sync with a node store.
//
// The model is owned by a single UI goroutine. Store calls run on their own
// goroutines and hand their results back through a channel; nothing changes
// locally until the UI goroutine applies them with Pump or Settle. Calls for
// the same node id are chained so they reach the store in issue order.
package model

import (
	"context"
	"fmt"
	"slices"
	"time"

	"graphboard/graph"
	"graphboard/metrics"
	"graphboard/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftPrefix marks ids of local previews that the store has not seen.
const DraftPrefix = "draft-"

// Options configures a Model. Every field is optional.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Collector
	// Wake is called from store goroutines after a completion is queued, so
	// hosts with their own event loop can schedule a Pump.
	Wake func()
	// Timeout bounds each store call. Zero means 30 seconds.
	Timeout time.Duration
}

type completion struct {
	ids   []string
	done  []chan struct{}
	apply func()
}

// Model is the local copy of the graph.
type Model struct {
	store   store.Store
	logger  *zap.Logger
	metrics *metrics.Collector
	wake    func()
	timeout time.Duration

	order     []string
	nodes     map[string]graph.Node
	relations []graph.Relation
	drafts    map[string]bool
	snapshots map[string]graph.Node
	selected  string

	completions chan completion
	inflight    int
	busy        map[string]int
	chains      map[string]chan struct{}

	version  uint64
	revision uint64

	onFailure func(*StoreFailure)
	onSelect  func(id string)
	onRemove  func(id string)
}

// New creates an empty model backed by s.
func New(s store.Store, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Model{
		store:       s,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		wake:        opts.Wake,
		timeout:     opts.Timeout,
		nodes:       make(map[string]graph.Node),
		drafts:      make(map[string]bool),
		snapshots:   make(map[string]graph.Node),
		completions: make(chan completion, 64),
		busy:        make(map[string]int),
		chains:      make(map[string]chan struct{}),
	}
}

// OnFailure registers the callback for rejected store calls.
func (m *Model) OnFailure(fn func(*StoreFailure)) { m.onFailure = fn }

// OnSelect registers the callback fired whenever the selected id changes.
func (m *Model) OnSelect(fn func(id string)) { m.onSelect = fn }

// OnRemove registers the callback fired after a node leaves the model: a
// confirmed delete or a dropped preview.
func (m *Model) OnRemove(fn func(id string)) { m.onRemove = fn }

// Version changes whenever the node set or a parent/spouse link changes.
func (m *Model) Version() uint64 { return m.version }

// Revision changes on every visible change to the model.
func (m *Model) Revision() uint64 { return m.revision }

// Load replaces the local state with the store's contents.
func (m *Model) Load(ctx context.Context) error {
	doc, err := store.Load(ctx, m.store)
	if err != nil {
		f := &StoreFailure{Op: OpLoad, Err: err}
		m.fail(f)
		return f
	}
	m.order = m.order[:0]
	clear(m.nodes)
	clear(m.drafts)
	clear(m.snapshots)
	for _, n := range doc.Nodes {
		m.order = append(m.order, n.ID)
		m.nodes[n.ID] = n
	}
	m.relations = doc.Relations
	if m.selected != "" {
		if _, ok := m.nodes[m.selected]; !ok {
			m.setSelected("")
		}
	}
	m.structural()
	m.logger.Debug("model loaded", zap.Int("nodes", len(doc.Nodes)), zap.Int("relations", len(doc.Relations)))
	return nil
}

// Nodes returns the nodes in draw order, optionally filtered by kind.
func (m *Model) Nodes(kinds ...graph.Kind) []graph.Node {
	out := make([]graph.Node, 0, len(m.order))
	for _, id := range m.order {
		n := m.nodes[id]
		if len(kinds) > 0 && !slices.Contains(kinds, n.Kind) {
			continue
		}
		out = append(out, n.Clone())
	}
	return out
}

// Node returns the node with id.
func (m *Model) Node(id string) (graph.Node, bool) {
	n, ok := m.nodes[id]
	if !ok {
		return graph.Node{}, false
	}
	return n.Clone(), true
}

// Len returns the number of nodes, previews included.
func (m *Model) Len() int { return len(m.order) }

// Relations returns the explicit relations.
func (m *Model) Relations() []graph.Relation {
	return slices.Clone(m.relations)
}

// Edges returns explicit relations and structural links, skipping dangling
// references.
func (m *Model) Edges() []graph.Edge {
	return graph.Edges(m.Nodes(), m.relations)
}

// Document returns the confirmed nodes and relations. Previews are left out.
func (m *Model) Document() *graph.Document {
	doc := &graph.Document{Relations: slices.Clone(m.relations)}
	for _, id := range m.order {
		if !m.drafts[id] {
			doc.Nodes = append(doc.Nodes, m.nodes[id].Clone())
		}
	}
	return doc
}

// IsDraft reports whether id is a local preview not yet created in the store.
func (m *Model) IsDraft(id string) bool { return m.drafts[id] }

// Busy reports whether a store call for id is in flight.
func (m *Model) Busy(id string) bool { return m.busy[id] > 0 }

// Pending returns the number of store calls whose results have not been
// applied yet.
func (m *Model) Pending() int { return m.inflight }

// Selected returns the selected node id, or "".
func (m *Model) Selected() string { return m.selected }

// Select sets the selection. Unknown ids clear it.
func (m *Model) Select(id string) {
	if _, ok := m.nodes[id]; !ok {
		id = ""
	}
	m.setSelected(id)
}

func (m *Model) setSelected(id string) {
	if m.selected == id {
		return
	}
	m.selected = id
	m.revision++
	if m.onSelect != nil {
		m.onSelect(id)
	}
}

func (m *Model) structural() {
	m.version++
	m.revision++
}

func (m *Model) fail(f *StoreFailure) {
	m.logger.Warn("store call failed", zap.String("op", f.Op), zap.String("id", f.ID), zap.Error(f.Err))
	m.metrics.ObserveFailure(f.Op)
	if m.onFailure != nil {
		m.onFailure(f)
	}
}

func (m *Model) discard(op, id string) {
	m.logger.Debug("discarding late completion", zap.String("op", op), zap.String("id", id))
	m.metrics.ObserveDiscard()
}

// issue runs call on a goroutine once every earlier call for the same ids has
// finished, and queues apply for the UI goroutine. apply receives call's
// error.
func (m *Model) issue(ids []string, call func(ctx context.Context) error, apply func(err error)) {
	prev := make([]chan struct{}, 0, len(ids))
	done := make([]chan struct{}, len(ids))
	for i, id := range ids {
		if p, ok := m.chains[id]; ok {
			prev = append(prev, p)
		}
		done[i] = make(chan struct{})
		m.chains[id] = done[i]
		m.busy[id]++
	}
	m.inflight++

	go func() {
		for _, p := range prev {
			<-p
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		err := call(ctx)
		cancel()

		// Queue before releasing the chain so completions for one id are
		// applied in issue order.
		m.completions <- completion{ids: ids, done: done, apply: func() { apply(err) }}
		for _, d := range done {
			close(d)
		}
		if m.wake != nil {
			m.wake()
		}
	}()
}

func (m *Model) finish(c completion) {
	m.inflight--
	for i, id := range c.ids {
		if m.busy[id]--; m.busy[id] <= 0 {
			delete(m.busy, id)
		}
		if m.chains[id] == c.done[i] {
			delete(m.chains, id)
		}
	}
	c.apply()
}

// Pump applies every completion that has arrived, without blocking, and
// returns how many were applied.
func (m *Model) Pump() int {
	n := 0
	for {
		select {
		case c := <-m.completions:
			m.finish(c)
			n++
		default:
			return n
		}
	}
}

// Settle blocks until every in-flight store call has completed and been
// applied, or ctx is done.
func (m *Model) Settle(ctx context.Context) error {
	for m.inflight > 0 {
		select {
		case c := <-m.completions:
			m.finish(c)
		case <-ctx.Done():
			return fmt.Errorf("settling model: %w", ctx.Err())
		}
	}
	return nil
}

// CreateNode validates draft and creates it in the store. The node appears
// locally once the store confirms it.
func (m *Model) CreateNode(draft graph.Draft) error {
	draft = draft.Finalize()
	if err := draft.Validate(); err != nil {
		return err
	}
	key := DraftPrefix + uuid.NewString()
	var created graph.Node
	m.issue([]string{key}, func(ctx context.Context) (err error) {
		created, err = m.store.CreateNode(ctx, draft)
		return err
	}, func(err error) {
		if err != nil {
			m.fail(&StoreFailure{Op: OpCreateNode, Err: err})
			return
		}
		m.insert(created)
	})
	return nil
}

func (m *Model) insert(n graph.Node) {
	if _, ok := m.nodes[n.ID]; !ok {
		m.order = append(m.order, n.ID)
	}
	m.nodes[n.ID] = n
	m.structural()
}

func (m *Model) remove(id string) {
	delete(m.nodes, id)
	delete(m.drafts, id)
	delete(m.snapshots, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	m.relations = slices.DeleteFunc(m.relations, func(r graph.Relation) bool { return r.Touches(id) })
	if m.selected == id {
		m.setSelected("")
	}
	m.structural()
	if m.onRemove != nil {
		m.onRemove(id)
	}
}

// UpdateNode forwards patch to the store and applies it locally once
// confirmed.
func (m *Model) UpdateNode(id string, patch graph.Patch) {
	if m.drafts[id] {
		m.PreviewPatch(id, patch)
		return
	}
	m.issue([]string{id}, func(ctx context.Context) error {
		return m.store.UpdateNode(ctx, id, patch)
	}, func(err error) {
		if err != nil {
			m.fail(&StoreFailure{Op: OpUpdateNode, ID: id, Err: err})
			return
		}
		n, ok := m.nodes[id]
		if !ok {
			m.discard(OpUpdateNode, id)
			return
		}
		m.nodes[id] = patch.Apply(n)
		if patch.Structural() {
			m.version++
		}
		m.revision++
	})
}

// DeleteNode removes id from the store. Once confirmed the node, every
// relation touching it and the selection (if it pointed at the node) go
// away locally. Previews are removed immediately.
func (m *Model) DeleteNode(id string) {
	if m.drafts[id] {
		m.remove(id)
		return
	}
	m.issue([]string{id}, func(ctx context.Context) error {
		return m.store.DeleteNode(ctx, id)
	}, func(err error) {
		if err != nil {
			m.fail(&StoreFailure{Op: OpDeleteNode, ID: id, Err: err})
			return
		}
		if _, ok := m.nodes[id]; !ok {
			m.discard(OpDeleteNode, id)
			return
		}
		m.remove(id)
	})
}

// CreateRelation creates rel in the store. It is added locally only if both
// endpoints still exist when the store confirms it.
func (m *Model) CreateRelation(rel graph.Relation) error {
	if err := rel.Validate(); err != nil {
		return err
	}
	var created graph.Relation
	m.issue([]string{rel.FromID, rel.ToID}, func(ctx context.Context) (err error) {
		created, err = m.store.CreateRelation(ctx, rel)
		return err
	}, func(err error) {
		if err != nil {
			m.fail(&StoreFailure{Op: OpCreateRelation, Err: err})
			return
		}
		_, okFrom := m.nodes[created.FromID]
		_, okTo := m.nodes[created.ToID]
		if !okFrom || !okTo {
			m.discard(OpCreateRelation, created.ID)
			return
		}
		m.relations = append(m.relations, created)
		m.revision++
	})
	return nil
}

// DeleteRelation removes the relation with id.
func (m *Model) DeleteRelation(id string) {
	m.issue([]string{id}, func(ctx context.Context) error {
		return m.store.DeleteRelation(ctx, id)
	}, func(err error) {
		if err != nil {
			m.fail(&StoreFailure{Op: OpDeleteRelation, ID: id, Err: err})
			return
		}
		i := slices.IndexFunc(m.relations, func(r graph.Relation) bool { return r.ID == id })
		if i < 0 {
			m.discard(OpDeleteRelation, id)
			return
		}
		m.relations = slices.Delete(m.relations, i, i+1)
		m.revision++
	})
}
