package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/metrics"
	"graphboard/store"
	"graphboard/store/storetest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return store.NewMemory() })
}

func TestBreakerConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewBreaker(store.NewMemory(), store.DefaultBreakerConfig("test"), nil)
	})
}

func TestInstrumentedConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return store.NewInstrumented(store.NewMemory(), metrics.NewCollector("test"))
	})
}

func TestBreakerTripsOnBackendFailures(t *testing.T) {
	faulty := storetest.NewFaulty(store.NewMemory())
	cfg := store.DefaultBreakerConfig("trip")
	cfg.MinRequests = 3
	cfg.FailureThreshold = 0.5
	cfg.Timeout = time.Hour
	b := store.NewBreaker(faulty, cfg, nil)
	ctx := context.Background()

	boom := errors.New("connection reset")
	for i := 0; i < 3; i++ {
		faulty.FailNext(storetest.OpUpdateNode, boom)
		assert.ErrorIs(t, b.UpdateNode(ctx, "x", graph.Patch{}), boom)
	}

	assert.Equal(t, gobreaker.StateOpen, b.State())
	_, err := b.ListNodes(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	cfg := store.DefaultBreakerConfig("nf")
	cfg.MinRequests = 1
	cfg.FailureThreshold = 0.1
	b := store.NewBreaker(store.NewMemory(), cfg, nil)

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, b.DeleteNode(context.Background(), "missing"), store.ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestInstrumentedRecordsOperations(t *testing.T) {
	m := metrics.NewCollector("test")
	s := store.NewInstrumented(store.NewMemory(), m)
	ctx := context.Background()

	_, err := s.CreateNode(ctx, graph.NewDraft(graph.KindRect, geometry.Pt(0, 0)))
	require.NoError(t, err)
	_ = s.DeleteNode(ctx, "missing")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("create_node", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("delete_node", "error")))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.NewMemory().ListNodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
