package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/store"
	"graphboard/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := OpenMemory()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards", "board.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	n, err := s.CreateNode(ctx, graph.NewDraft(graph.KindEllipse, geometry.Pt(3, 4)))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, n.ID, nodes[0].ID)
	assert.Equal(t, graph.KindEllipse, nodes[0].Kind)
	assert.Equal(t, path, s.Path())
}
