// Package sqlite implements the node store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"graphboard/graph"
	"graphboard/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a store.Store backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return newStore(db, path)
}

// OpenMemory creates an in-memory database (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	return newStore(db, ":memory:")
}

func newStore(db *sql.DB, path string) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &Store{db: db, path: path}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '{}',
    tags TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS relations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    from_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    to_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    label TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    directed INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_id);
CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_id);
`

// ListNodes returns every node in creation order.
func (s *Store) ListNodes(ctx context.Context) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, title, content, tags FROM nodes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner) (graph.Node, error) {
	var (
		n               graph.Node
		kind            string
		content, tagsJS string
	)
	if err := row.Scan(&n.ID, &kind, &n.Title, &content, &tagsJS); err != nil {
		return graph.Node{}, err
	}
	n.Kind = graph.Kind(kind)
	if err := json.Unmarshal([]byte(content), &n.Content); err != nil {
		return graph.Node{}, fmt.Errorf("decoding content of node %s: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(tagsJS), &n.Tags); err != nil {
		return graph.Node{}, fmt.Errorf("decoding tags of node %s: %w", n.ID, err)
	}
	return n, nil
}

// ListRelations returns every relation in creation order.
func (s *Store) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_id, to_id, label, color, directed FROM relations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()

	var rels []graph.Relation
	for rows.Next() {
		var r graph.Relation
		if err := rows.Scan(&r.ID, &r.FromID, &r.ToID, &r.Label, &r.Color, &r.Directed); err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, kind, title, content, tags) VALUES (?, ?, ?, ?, ?)`,
		node.ID, string(node.Kind), node.Title, content, tags)
	if err != nil {
		return graph.Node{}, fmt.Errorf("inserting node: %w", err)
	}
	return node, nil
}

func encode(n graph.Node) (content, tags string, err error) {
	c, err := json.Marshal(n.Content)
	if err != nil {
		return "", "", fmt.Errorf("encoding content: %w", err)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	t, err := json.Marshal(n.Tags)
	if err != nil {
		return "", "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(c), string(t), nil
}

// UpdateNode applies patch to the node with id.
func (s *Store) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT id, kind, title, content, tags FROM nodes WHERE id = ?`, id)
	node, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET title = ?, content = ?, tags = ? WHERE id = ?`,
		node.Title, content, tags, id); err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	return tx.Commit()
}

// DeleteNode removes the node and the relations referencing it.
func (s *Store) DeleteNode(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM relations WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
		return fmt.Errorf("deleting relations: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("node %s: %w", id, store.ErrNotFound)
	}
	return tx.Commit()
}

// CreateRelation stores rel under a fresh uuid. Both endpoints must exist.
func (s *Store) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	if err := rel.Validate(); err != nil {
		return graph.Relation{}, err
	}
	for _, id := range []string{rel.FromID, rel.ToID} {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE id = ?`, id).Scan(&n); err != nil {
			return graph.Relation{}, fmt.Errorf("checking endpoint: %w", err)
		}
		if n == 0 {
			return graph.Relation{}, fmt.Errorf("relation endpoint %s: %w", id, store.ErrNotFound)
		}
	}
	rel.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relations (id, from_id, to_id, label, color, directed) VALUES (?, ?, ?, ?, ?, ?)`,
		rel.ID, rel.FromID, rel.ToID, rel.Label, rel.Color, rel.Directed)
	if err != nil {
		return graph.Relation{}, fmt.Errorf("inserting relation: %w", err)
	}
	return rel, nil
}

// DeleteRelation removes the relation with id.
func (s *Store) DeleteRelation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM relations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("relation %s: %w", id, store.ErrNotFound)
	}
	return nil
}
