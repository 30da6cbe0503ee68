package layout

import (
	"maps"

	"graphboard/geometry"
	"graphboard/graph"
	"graphboard/metrics"

	"github.com/cespare/xxhash/v2"
)

// Cached memoises an engine's output. The result is reused until the set of
// people or their parent links change; moving or renaming a person does not
// invalidate it.
type Cached struct {
	engine  Engine
	metrics *metrics.Collector

	valid       bool
	fingerprint uint64
	positions   map[string]geometry.Point
}

// NewCached wraps engine. m may be nil.
func NewCached(engine Engine, m *metrics.Collector) *Cached {
	return &Cached{engine: engine, metrics: m}
}

// Layout returns the positions for people, recomputing them only when the
// structure changed.
func (c *Cached) Layout(people []graph.Node) map[string]geometry.Point {
	fp := Fingerprint(people)
	hit := c.valid && fp == c.fingerprint
	c.metrics.ObserveLayout(hit)
	if !hit {
		c.positions = c.engine.Layout(people)
		c.fingerprint = fp
		c.valid = true
	}
	return maps.Clone(c.positions)
}

// Invalidate forces the next Layout call to recompute.
func (c *Cached) Invalidate() { c.valid = false }

// Fingerprint hashes the ids and parent lists of people in order.
func Fingerprint(people []graph.Node) uint64 {
	d := xxhash.New()
	for _, p := range people {
		_, _ = d.WriteString(p.ID)
		_, _ = d.Write([]byte{0})
		for _, parent := range p.Content.Parents {
			_, _ = d.WriteString(parent)
			_, _ = d.Write([]byte{1})
		}
		_, _ = d.Write([]byte{2})
	}
	return d.Sum64()
}
