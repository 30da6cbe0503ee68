// Package store defines the remote node store the graph model forwards its
// mutations to, along with in-process implementations and decorators.
package store

import (
	"context"
	"errors"

	"graphboard/graph"
)

// Common errors
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the create/read/update/delete contract of a node store.
// Implementations must be safe for concurrent use.
type Store interface {
	// ListNodes returns every node in creation order.
	ListNodes(ctx context.Context) ([]graph.Node, error)
	// ListRelations returns every explicit relation in creation order.
	ListRelations(ctx context.Context) ([]graph.Relation, error)
	// CreateNode stores a draft and returns the node with its assigned id.
	CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error)
	// UpdateNode applies patch to the node with id.
	UpdateNode(ctx context.Context, id string, patch graph.Patch) error
	// DeleteNode removes the node and every relation referencing it.
	DeleteNode(ctx context.Context, id string) error
	// CreateRelation stores a relation and returns it with its assigned id.
	CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error)
	// DeleteRelation removes one relation.
	DeleteRelation(ctx context.Context, id string) error
}

// Load reads the whole store into a document.
func Load(ctx context.Context, s Store) (*graph.Document, error) {
	nodes, err := s.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	rels, err := s.ListRelations(ctx)
	if err != nil {
		return nil, err
	}
	return &graph.Document{Nodes: nodes, Relations: rels}, nil
}

// Import writes a document into a store. Node ids in the document are mapped
// to the ids the store assigns, and relations and parent/spouse references are
// rewritten accordingly. It returns the old→new id mapping.
func Import(ctx context.Context, s Store, doc *graph.Document) (map[string]string, error) {
	ids := make(map[string]string, len(doc.Nodes))
	created := make([]graph.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		d := graph.DraftOf(n)
		d.Content.Parents = nil
		d.Content.Spouse = ""
		node, err := s.CreateNode(ctx, d)
		if err != nil {
			return ids, err
		}
		ids[n.ID] = node.ID
		created = append(created, node)
	}

	// Structural references can only be resolved once every id is known.
	for i, n := range doc.Nodes {
		if len(n.Content.Parents) == 0 && n.Content.Spouse == "" {
			continue
		}
		var patch graph.Patch
		if len(n.Content.Parents) > 0 {
			parents := make([]string, 0, len(n.Content.Parents))
			for _, p := range n.Content.Parents {
				if id, ok := ids[p]; ok {
					parents = append(parents, id)
				}
			}
			patch.Parents = &parents
		}
		if id, ok := ids[n.Content.Spouse]; ok {
			patch.Spouse = graph.Ptr(id)
		}
		if err := s.UpdateNode(ctx, created[i].ID, patch); err != nil {
			return ids, err
		}
	}

	for _, r := range doc.Relations {
		from, okFrom := ids[r.FromID]
		to, okTo := ids[r.ToID]
		if !okFrom || !okTo {
			continue
		}
		r.ID = ""
		r.FromID, r.ToID = from, to
		if _, err := s.CreateRelation(ctx, r); err != nil {
			return ids, err
		}
	}
	return ids, nil
}
