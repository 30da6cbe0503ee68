package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStore(t *testing.T) {
	c := NewCollector("test")

	c.ObserveStore("create_node", time.Now(), nil)
	c.ObserveStore("create_node", time.Now(), errors.New("boom"))
	c.ObserveStore("create_node", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.StoreOps.WithLabelValues("create_node", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StoreOps.WithLabelValues("create_node", "error")))
}

func TestObserveLayout(t *testing.T) {
	c := NewCollector("test")
	c.ObserveLayout(true)
	c.ObserveLayout(false)
	c.ObserveLayout(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.LayoutHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.LayoutMisses))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveStore("x", time.Now(), nil)
		c.ObserveRedraw(time.Now())
		c.ObserveLayout(true)
		c.ObserveFailure("x")
		c.ObserveDiscard()
		c.ObserveHTTP("GET", "/", 200, time.Now())
	})
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("a")
		NewCollector("a")
	})
}
