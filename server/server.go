// Package server exposes a node store over a small REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"graphboard/metrics"
	"graphboard/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Addr     string `koanf:"addr"`
	AllowAll bool   `koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// Server serves a store.Store over HTTP.
type Server struct {
	cfg        Config
	store      store.Store
	metrics    *metrics.Collector
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server for s. m and logger may be nil.
func New(cfg Config, s store.Store, m *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		cfg:     cfg,
		store:   s,
		metrics: m,
		logger:  logger,
	}
	srv.router = srv.buildRouter()
	return srv
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/nodes", s.listNodes)
		r.Post("/nodes", s.createNode)
		r.Patch("/nodes/{id}", s.updateNode)
		r.Delete("/nodes/{id}", s.deleteNode)
		r.Get("/relations", s.listRelations)
		r.Post("/relations", s.createRelation)
		r.Delete("/relations/{id}", s.deleteRelation)
	})
	return r
}

// logRequests logs each request with zap and records it in the collector
// under its route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(r.Method, route, status, start)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("graphboard server listening", zap.String("addr", s.cfg.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
