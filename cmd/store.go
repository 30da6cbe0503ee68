package cmd

import (
	"context"
	"fmt"
	"net/http"

	"graphboard/config"
	"graphboard/metrics"
	"graphboard/store"
	"graphboard/store/postgres"
	"graphboard/store/remote"
	"graphboard/store/sqlite"

	"go.uber.org/zap"
)

// openStore opens the configured store behind the circuit breaker and the
// metrics decorator. The returned close function releases the backend.
func (a *app) openStore(ctx context.Context, m *metrics.Collector) (store.Store, func(), error) {
	sc := a.cfg.Store
	var (
		backend store.Store
		closer  = func() {}
	)
	switch sc.Driver {
	case config.DriverMemory:
		backend = store.NewMemory()
	case config.DriverSQLite:
		db, err := sqlite.Open(sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closer = func() { _ = db.Close() }
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		backend = pool
		closer = pool.Close
	case config.DriverRemote:
		backend = remote.New(sc.URL, &http.Client{Timeout: sc.Timeout})
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
	a.logger.Debug("store opened", zap.String("driver", sc.Driver))

	var s store.Store = store.NewBreaker(backend, sc.Breaker, a.logger)
	if m != nil {
		s = store.NewInstrumented(s, m)
	}
	return s, closer, nil
}
