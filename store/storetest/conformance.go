package storetest

import (
	"context"
	"testing"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the Store contract against stores built by newStore. Each
// subtest gets a fresh, empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("CreateAndList", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.CreateNode(ctx, graph.NewDraft(graph.KindRect, geometry.Pt(1, 2)))
		require.NoError(t, err)
		b, err := s.CreateNode(ctx, graph.Draft{Kind: graph.KindEvidence, Title: "Letter", Tags: []string{"paper"},
			Content: graph.Content{X: 10, Y: 20, Width: 200, Height: 100, Description: "found in desk"}})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, a.ID, b.ID)

		nodes, err := s.ListNodes(ctx)
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, a.ID, nodes[0].ID, "creation order is preserved")
		assert.Equal(t, "Letter", nodes[1].Title)
		assert.Equal(t, "found in desk", nodes[1].Content.Description)
		assert.Equal(t, []string{"paper"}, nodes[1].Tags)
	})

	t.Run("RejectsInvalidDraft", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateNode(context.Background(), graph.Draft{Kind: "bogus"})
		assert.Error(t, err)
	})

	t.Run("Update", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		n, err := s.CreateNode(ctx, graph.NewDraft(graph.KindRect, geometry.Pt(0, 0)))
		require.NoError(t, err)

		require.NoError(t, s.UpdateNode(ctx, n.ID, graph.Resize(geometry.R(5, 6, 40, 50))))
		require.NoError(t, s.UpdateNode(ctx, n.ID, graph.Patch{Title: graph.Ptr("box")}))

		nodes, err := s.ListNodes(ctx)
		require.NoError(t, err)
		require.Len(t, nodes, 1)
		assert.Equal(t, geometry.R(5, 6, 40, 50), nodes[0].Content.Bounds())
		assert.Equal(t, "box", nodes[0].Title)

		err = s.UpdateNode(ctx, "missing", graph.Patch{Title: graph.Ptr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("DeleteCascadesRelations", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, _ := s.CreateNode(ctx, graph.NewDraft(graph.KindEvidence, geometry.Pt(0, 0)))
		b, _ := s.CreateNode(ctx, graph.NewDraft(graph.KindEvidence, geometry.Pt(300, 0)))
		c, _ := s.CreateNode(ctx, graph.NewDraft(graph.KindEvidence, geometry.Pt(600, 0)))

		ab, err := s.CreateRelation(ctx, graph.Relation{FromID: a.ID, ToID: b.ID, Label: "cites", Directed: true})
		require.NoError(t, err)
		assert.NotEmpty(t, ab.ID)
		_, err = s.CreateRelation(ctx, graph.Relation{FromID: b.ID, ToID: c.ID})
		require.NoError(t, err)

		require.NoError(t, s.DeleteNode(ctx, b.ID))

		rels, err := s.ListRelations(ctx)
		require.NoError(t, err)
		assert.Empty(t, rels)
		nodes, err := s.ListNodes(ctx)
		require.NoError(t, err)
		assert.Len(t, nodes, 2)

		assert.ErrorIs(t, s.DeleteNode(ctx, b.ID), store.ErrNotFound)
	})

	t.Run("Relations", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, _ := s.CreateNode(ctx, graph.NewDraft(graph.KindEvidence, geometry.Pt(0, 0)))
		b, _ := s.CreateNode(ctx, graph.NewDraft(graph.KindEvidence, geometry.Pt(300, 0)))

		_, err := s.CreateRelation(ctx, graph.Relation{FromID: a.ID, ToID: "missing"})
		assert.ErrorIs(t, err, store.ErrNotFound)

		r, err := s.CreateRelation(ctx, graph.Relation{FromID: a.ID, ToID: b.ID, Label: "alibi", Color: "#ff0000", Directed: true})
		require.NoError(t, err)

		rels, err := s.ListRelations(ctx)
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, r, rels[0])

		require.NoError(t, s.DeleteRelation(ctx, r.ID))
		assert.ErrorIs(t, s.DeleteRelation(ctx, r.ID), store.ErrNotFound)
	})

	t.Run("StructuralContent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		parent, _ := s.CreateNode(ctx, graph.Draft{Kind: graph.KindPerson, Title: "Ada"})
		child, err := s.CreateNode(ctx, graph.Draft{Kind: graph.KindPerson, Title: "Byron",
			Content: graph.Content{Parents: []string{parent.ID}}})
		require.NoError(t, err)
		require.NoError(t, s.UpdateNode(ctx, parent.ID, graph.Patch{Spouse: graph.Ptr(child.ID)}))

		nodes, err := s.ListNodes(ctx)
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, child.ID, nodes[0].Content.Spouse)
		assert.Equal(t, []string{parent.ID}, nodes[1].Content.Parents)
	})

	t.Run("FreehandPoints", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		pts := []geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 5, Y: 8}}
		n, err := s.CreateNode(ctx, graph.Draft{Kind: graph.KindPath, Content: graph.Content{Points: pts}})
		require.NoError(t, err)
		assert.Equal(t, pts, n.Content.Points)

		nodes, err := s.ListNodes(ctx)
		require.NoError(t, err)
		assert.Equal(t, pts, nodes[0].Content.Points)
	})

	t.Run("Import", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		doc := &graph.Document{
			Nodes: []graph.Node{
				{ID: "p1", Kind: graph.KindPerson, Title: "Root"},
				{ID: "p2", Kind: graph.KindPerson, Title: "Kid", Content: graph.Content{Parents: []string{"p1"}, Spouse: "p3"}},
				{ID: "p3", Kind: graph.KindPerson, Title: "Partner"},
			},
			Relations: []graph.Relation{{FromID: "p1", ToID: "p3", Label: "knows"}, {FromID: "p1", ToID: "ghost"}},
		}

		ids, err := store.Import(ctx, s, doc)
		require.NoError(t, err)
		require.Len(t, ids, 3)

		loaded, err := store.Load(ctx, s)
		require.NoError(t, err)
		require.Len(t, loaded.Nodes, 3)
		assert.Equal(t, []string{ids["p1"]}, loaded.Nodes[1].Content.Parents)
		assert.Equal(t, ids["p3"], loaded.Nodes[1].Content.Spouse)
		require.Len(t, loaded.Relations, 1)
		assert.Equal(t, ids["p1"], loaded.Relations[0].FromID)
	})
}
