// Package storetest provides a conformance suite for store implementations and
// a fault-injecting store wrapper for model tests.
package storetest

import (
	"context"
	"sync"

	"graphboard/graph"
	"graphboard/store"
)

// Operation names used by Faulty.
const (
	OpListNodes      = "list_nodes"
	OpListRelations  = "list_relations"
	OpCreateNode     = "create_node"
	OpUpdateNode     = "update_node"
	OpDeleteNode     = "delete_node"
	OpCreateRelation = "create_relation"
	OpDeleteRelation = "delete_relation"
)

// Call is one call that reached the wrapped store.
type Call struct {
	Op    string
	ID    string
	Patch graph.Patch
}

// Faulty wraps a store and can fail or hold individual calls.
type Faulty struct {
	next store.Store

	mu       sync.Mutex
	failures map[string][]error
	gates    map[string][]chan struct{}
	calls    []Call
}

// NewFaulty wraps next.
func NewFaulty(next store.Store) *Faulty {
	return &Faulty{
		next:     next,
		failures: make(map[string][]error),
		gates:    make(map[string][]chan struct{}),
	}
}

// FailNext makes the next call of op return err without reaching the store.
func (f *Faulty) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], err)
}

// HoldNext blocks the next call of op until release is called.
func (f *Faulty) HoldNext(op string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[op] = append(f.gates[op], gate)
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// HoldNextID is HoldNext restricted to calls of op for the node id.
func (f *Faulty) HoldNextID(op, id string) (release func()) {
	return f.HoldNext(op + "/" + id)
}

// Calls returns the calls that reached the wrapped store, in order.
func (f *Faulty) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsOf returns the calls of op that reached the wrapped store, in order.
func (f *Faulty) CallsOf(op string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// enter applies pending gates and failures for op and records the call.
func (f *Faulty) enter(ctx context.Context, c Call) error {
	f.mu.Lock()
	var gate chan struct{}
	for _, key := range []string{c.Op + "/" + c.ID, c.Op} {
		if gs := f.gates[key]; len(gs) > 0 {
			gate, f.gates[key] = gs[0], gs[1:]
			break
		}
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if errs := f.failures[c.Op]; len(errs) > 0 {
		err := errs[0]
		f.failures[c.Op] = errs[1:]
		return err
	}
	f.calls = append(f.calls, c)
	return nil
}

func (f *Faulty) ListNodes(ctx context.Context) ([]graph.Node, error) {
	if err := f.enter(ctx, Call{Op: OpListNodes}); err != nil {
		return nil, err
	}
	return f.next.ListNodes(ctx)
}

func (f *Faulty) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	if err := f.enter(ctx, Call{Op: OpListRelations}); err != nil {
		return nil, err
	}
	return f.next.ListRelations(ctx)
}

func (f *Faulty) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	if err := f.enter(ctx, Call{Op: OpCreateNode}); err != nil {
		return graph.Node{}, err
	}
	return f.next.CreateNode(ctx, draft)
}

func (f *Faulty) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	if err := f.enter(ctx, Call{Op: OpUpdateNode, ID: id, Patch: patch}); err != nil {
		return err
	}
	return f.next.UpdateNode(ctx, id, patch)
}

func (f *Faulty) DeleteNode(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: OpDeleteNode, ID: id}); err != nil {
		return err
	}
	return f.next.DeleteNode(ctx, id)
}

func (f *Faulty) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	if err := f.enter(ctx, Call{Op: OpCreateRelation}); err != nil {
		return graph.Relation{}, err
	}
	return f.next.CreateRelation(ctx, rel)
}

func (f *Faulty) DeleteRelation(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: OpDeleteRelation, ID: id}); err != nil {
		return err
	}
	return f.next.DeleteRelation(ctx, id)
}
