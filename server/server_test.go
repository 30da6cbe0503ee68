package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graphboard/metrics"
	"graphboard/server"
	"graphboard/store"
	"graphboard/store/remote"
	"graphboard/store/storetest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, m *metrics.Collector) *httptest.Server {
	t.Helper()
	srv := server.New(server.Config{}, store.NewMemory(), m, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRemoteConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		ts := newTestServer(t, nil)
		return remote.New(ts.URL, ts.Client())
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBadBody(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := ts.Client().Post(ts.URL+"/api/nodes", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestsAreCounted(t *testing.T) {
	m := metrics.NewCollector("test")
	ts := newTestServer(t, m)
	c := remote.New(ts.URL, ts.Client())

	_, err := c.ListNodes(context.Background())
	require.NoError(t, err)
	err = c.DeleteNode(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/nodes", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("DELETE", "/api/nodes/{id}", "404")))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, server.StatusFor(store.ErrNotFound))
	assert.Equal(t, http.StatusConflict, server.StatusFor(store.ErrConflict))
	assert.Equal(t, http.StatusServiceUnavailable, server.StatusFor(store.ErrUnavailable))
	assert.Equal(t, http.StatusInternalServerError, server.StatusFor(assert.AnError))
}
