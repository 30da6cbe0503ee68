package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"graphboard/graph"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the store circuit breaker.
type BreakerConfig struct {
	Name        string        `koanf:"name"`
	MaxRequests uint32        `koanf:"max_requests"`
	Interval    time.Duration `koanf:"interval"`
	Timeout     time.Duration `koanf:"timeout"`
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests calls have been seen.
	FailureThreshold float64 `koanf:"failure_threshold"`
	MinRequests      uint32  `koanf:"min_requests"`
}

// DefaultBreakerConfig returns a default configuration for the breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Breaker guards a Store with a circuit breaker so a failing backend is
// reported as ErrUnavailable immediately instead of on every call.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next.
func NewBreaker(next Store, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Store circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Caller errors say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrConflict) ||
				errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{next: next, cb: cb}
}

// State returns the breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return zero, err
	}
	return v.(T), nil
}

func (b *Breaker) ListNodes(ctx context.Context) ([]graph.Node, error) {
	return execute(b, func() ([]graph.Node, error) { return b.next.ListNodes(ctx) })
}

func (b *Breaker) ListRelations(ctx context.Context) ([]graph.Relation, error) {
	return execute(b, func() ([]graph.Relation, error) { return b.next.ListRelations(ctx) })
}

func (b *Breaker) CreateNode(ctx context.Context, draft graph.Draft) (graph.Node, error) {
	return execute(b, func() (graph.Node, error) { return b.next.CreateNode(ctx, draft) })
}

func (b *Breaker) UpdateNode(ctx context.Context, id string, patch graph.Patch) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.UpdateNode(ctx, id, patch) })
	return err
}

func (b *Breaker) DeleteNode(ctx context.Context, id string) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.DeleteNode(ctx, id) })
	return err
}

func (b *Breaker) CreateRelation(ctx context.Context, rel graph.Relation) (graph.Relation, error) {
	return execute(b, func() (graph.Relation, error) { return b.next.CreateRelation(ctx, rel) })
}

func (b *Breaker) DeleteRelation(ctx context.Context, id string) error {
	_, err := execute(b, func() (struct{}, error) { return struct{}{}, b.next.DeleteRelation(ctx, id) })
	return err
}
