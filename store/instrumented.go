package store

import (
	"context"
	"time"

	"graphboard/graph"
	"graphboard/metrics"
)

// Instrumented records every call of the wrapped store in a metrics collector.
type Instrumented struct {
	next Store
	m    *metrics.Collector
}

// NewInstrumented wraps next.
func NewInstrumented(next Store, m *metrics.Collector) *Instrumented {
	return &Instrumented{next: next, m: m}
}

func (s *Instrumented) ListNodes(ctx context.Context) ([]graph.Node, error) {
	start := time.Now()
	nodes, err := s.next.ListNodes(ctx)
	s.m.ObserveStore("list_nodes", start, err)
	return nodes, err
}

func (s *Instrumented) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	start := time.Now()
	rels, err := s.next.ListRelations(ctx)
	s.m.ObserveStore("list_relations", start, err)
	return rels, err
}

func (s *Instrumented) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	start := time.Now()
	node, err := s.next.CreateNode(ctx, draft)
	s.m.ObserveStore("create_node", start, err)
	return node, err
}

func (s *Instrumented) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	start := time.Now()
	err := s.next.UpdateNode(ctx, id, patch)
	s.m.ObserveStore("update_node", start, err)
	return err
}

func (s *Instrumented) DeleteNode(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteNode(ctx, id)
	s.m.ObserveStore("delete_node", start, err)
	return err
}

func (s *Instrumented) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	start := time.Now()
	created, err := s.next.CreateRelation(ctx, rel)
	s.m.ObserveStore("create_relation", start, err)
	return created, err
}

func (s *Instrumented) DeleteRelation(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteRelation(ctx, id)
	s.m.ObserveStore("delete_relation", start, err)
	return err
}
