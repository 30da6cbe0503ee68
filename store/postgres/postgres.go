// Package postgres implements the node store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"graphboard/graph"
	"graphboard/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a store.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// Connect opens a pool for dsn and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS graph_nodes (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content JSONB NOT NULL DEFAULT '{}',
    tags JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS graph_relations (
    seq BIGSERIAL PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    from_id TEXT NOT NULL REFERENCES graph_nodes(id) ON DELETE CASCADE,
    to_id TEXT NOT NULL REFERENCES graph_nodes(id) ON DELETE CASCADE,
    label TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    directed BOOLEAN NOT NULL DEFAULT FALSE
);
`

// Reset truncates both tables. Intended for tests.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE graph_relations, graph_nodes`)
	return err
}

// ListNodes returns every node in creation order.
func (s *Store) ListNodes(ctx context.Context) ([]graph.Node, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, kind, title, content, tags FROM graph_nodes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	return pgx.CollectRows(rows, scanNode)
}

func scanNode(row pgx.CollectableRow) (graph.Node, error) {
	var (
		n             graph.Node
		kind          string
		content, tags []byte
	)
	if err := row.Scan(&n.ID, &kind, &n.Title, &content, &tags); err != nil {
		return graph.Node{}, err
	}
	n.Kind = graph.Kind(kind)
	if err := json.Unmarshal(content, &n.Content); err != nil {
		return graph.Node{}, fmt.Errorf("decoding content of node %s: %w", n.ID, err)
	}
	if err := json.Unmarshal(tags, &n.Tags); err != nil {
		return graph.Node{}, fmt.Errorf("decoding tags of node %s: %w", n.ID, err)
	}
	return n, nil
}

// ListRelations returns every relation in creation order.
func (s *Store) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, from_id, to_id, label, color, directed FROM graph_relations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (graph.Relation, error) {
		var r graph.Relation
		err := row.Scan(&r.ID, &r.FromID, &r.ToID, &r.Label, &r.Color, &r.Directed)
		return r, err
	})
}

func encode(n graph.Node) (content, tags []byte, err error) {
	if content, err = json.Marshal(n.Content); err != nil {
		return nil, nil, fmt.Errorf("encoding content: %w", err)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if tags, err = json.Marshal(n.Tags); err != nil {
		return nil, nil, fmt.Errorf("encoding tags: %w", err)
	}
	return content, tags, nil
}

// CreateNode stores the draft under a fresh uuid.
func (s *Store) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	if err := draft.Validate(); err != nil {
		return graph.Node{}, err
	}
	node := draft.Node(uuid.NewString())
	content, tags, err := encode(node)
	if err != nil {
		return graph.Node{}, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO graph_nodes (id, kind, title, content, tags) VALUES ($1, $2, $3, $4, $5)`,
		node.ID, string(node.Kind), node.Title, content, tags)
	if err != nil {
		return graph.Node{}, fmt.Errorf("inserting node: %w", err)
	}
	return node, nil
}

// UpdateNode applies patch to the node with id inside a row-locking
// transaction.
func (s *Store) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id, kind, title, content, tags FROM graph_nodes WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		node, err := pgx.CollectExactlyOneRow(rows, scanNode)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
		}
		if err != nil {
			return err
		}

		node = patch.Apply(node)
		content, tags, err := encode(node)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE graph_nodes SET title = $1, content = $2, tags = $3 WHERE id = $4`,
			node.Title, content, tags, id)
		return err
	})
}

// DeleteNode removes the node; relations go with it through ON DELETE CASCADE.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM graph_nodes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// CreateRelation stores rel under a fresh uuid. Both endpoints must exist.
func (s *Store) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	if err := rel.Validate(); err != nil {
		return graph.Relation{}, err
	}
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT id) FROM graph_nodes WHERE id = $1 OR id = $2`, rel.FromID, rel.ToID).Scan(&n)
	if err != nil {
		return graph.Relation{}, fmt.Errorf("checking endpoints: %w", err)
	}
	want := 2
	if rel.FromID == rel.ToID {
		want = 1
	}
	if n != want {
		return graph.Relation{}, fmt.Errorf("relation endpoint: %w", store.ErrNotFound)
	}

	rel.ID = uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO graph_relations (id, from_id, to_id, label, color, directed) VALUES ($1, $2, $3, $4, $5, $6)`,
		rel.ID, rel.FromID, rel.ToID, rel.Label, rel.Color, rel.Directed)
	if err != nil {
		return graph.Relation{}, fmt.Errorf("inserting relation: %w", err)
	}
	return rel, nil
}

// DeleteRelation removes the relation with id.
func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM graph_relations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("relation %s: %w", id, store.ErrNotFound)
	}
	return nil
}
