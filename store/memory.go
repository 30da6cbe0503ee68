package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"graphboard/graph"

	"github.com/google/uuid"
)

// Memory is an in-process Store. The zero value is not usable; use NewMemory.
type Memory struct {
	mu        sync.RWMutex
	nodes     map[string]graph.Node
	order     []string
	relations []graph.Relation
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]graph.Node)}
}

// ListNodes returns every node in creation order.
func (m *Memory) ListNodes(ctx context.Context) ([]graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]graph.Node, 0, len(m.order))
	for _, id := range m.order {
		nodes = append(nodes, m.nodes[id].Clone())
	}
	return nodes, nil
}

// ListRelations returns every relation in creation order.
func (m *Memory) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.relations), nil
}

// CreateNode stores the draft under a fresh uuid.
func (m *Memory) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	if err := ctx.Err(); err != nil {
		return graph.Node{}, err
	}
	if err := draft.Validate(); err != nil {
		return graph.Node{}, err
	}
	node := draft.Node(uuid.NewString())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[node.ID] = node
	m.order = append(m.order, node.ID)
	return node.Clone(), nil
}

// UpdateNode applies patch to the node with id.
func (m *Memory) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	m.nodes[id] = patch.Apply(node)
	return nil
}

// DeleteNode removes the node and the relations referencing it.
func (m *Memory) DeleteNode(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[id]; !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	delete(m.nodes, id)
	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
	m.relations = slices.DeleteFunc(m.relations, func(r graph.Relation) bool { return r.Touches(id) })
	return nil
}

// CreateRelation stores rel under a fresh uuid. Both endpoints must exist.
func (m *Memory) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	if err := ctx.Err(); err != nil {
		return graph.Relation{}, err
	}
	if err := rel.Validate(); err != nil {
		return graph.Relation{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{rel.FromID, rel.ToID} {
		if _, ok := m.nodes[id]; !ok {
			return graph.Relation{}, fmt.Errorf("relation endpoint %s: %w", id, ErrNotFound)
		}
	}
	rel.ID = uuid.NewString()
	m.relations = append(m.relations, rel)
	return rel, nil
}

// DeleteRelation removes the relation with id.
func (m *Memory) DeleteRelation(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.relations, func(r graph.Relation) bool { return r.ID == id })
	if i < 0 {
		return fmt.Errorf("relation %s: %w", id, ErrNotFound)
	}
	m.relations = slices.Delete(m.relations, i, i+1)
	return nil
}
