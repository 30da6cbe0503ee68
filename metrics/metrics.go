// Package metrics holds the Prometheus collectors for store calls, layout and
// rendering.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the engine and its stores report. Each
// collector owns its registry so tests can create as many as they need.
type Collector struct {
	registry *prometheus.Registry

	// Store metrics
	StoreOps      *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec

	// Engine metrics
	Redraws        prometheus.Counter
	RedrawDuration prometheus.Histogram
	LayoutHits     prometheus.Counter
	LayoutMisses   prometheus.Counter
	StoreFailures  *prometheus.CounterVec
	DiscardedLate  prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics live under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		}, []string{"operation", "status"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		Redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redraws_total",
			Help:      "Total number of rendered frames",
		}),
		RedrawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "redraw_duration_seconds",
			Help:      "Frame render duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		LayoutHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_cache_hits_total",
			Help:      "Layout computations served from cache",
		}),
		LayoutMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_cache_misses_total",
			Help:      "Layout computations that ran the placement algorithm",
		}),
		StoreFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_store_failures_total",
			Help:      "Mutations rejected by the store",
		}, []string{"operation"}),
		DiscardedLate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_late_completions_discarded_total",
			Help:      "Store completions discarded because the node was deleted locally",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.StoreOps, c.StoreDuration,
		c.Redraws, c.RedrawDuration,
		c.LayoutHits, c.LayoutMisses,
		c.StoreFailures, c.DiscardedLate,
		c.HTTPRequests, c.HTTPDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveStore records one store call.
func (c *Collector) ObserveStore(op string, start time.Time, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.StoreOps.WithLabelValues(op, status).Inc()
	c.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveRedraw records one rendered frame.
func (c *Collector) ObserveRedraw(start time.Time) {
	if c == nil {
		return
	}
	c.Redraws.Inc()
	c.RedrawDuration.Observe(time.Since(start).Seconds())
}

// ObserveLayout records a layout cache lookup.
func (c *Collector) ObserveLayout(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.LayoutHits.Inc()
	} else {
		c.LayoutMisses.Inc()
	}
}

// ObserveFailure records a mutation rejected by the store.
func (c *Collector) ObserveFailure(op string) {
	if c == nil {
		return
	}
	c.StoreFailures.WithLabelValues(op).Inc()
}

// ObserveDiscard records a late completion that was dropped.
func (c *Collector) ObserveDiscard() {
	if c == nil {
		return
	}
	c.DiscardedLate.Inc()
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, start time.Time) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
