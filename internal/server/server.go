// Package server implements the nbmap render API.
//
// The server exposes the rendering pipeline over HTTP: clients POST a
// GeoJSON collection and receive the composed map (or one of the other
// formats) back. Datasets can also be stored by name and rendered
// later by id. All routes sit under /v1 except the health check.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/nbmap/nbmap/pkg/cache"
	"github.com/nbmap/nbmap/pkg/pipeline"
	"github.com/nbmap/nbmap/pkg/store"
)

// Defaults for the HTTP server.
const (
	DefaultAddr = ":8080"

	// MaxBodyBytes caps request bodies. Areal collections compress
	// poorly, so the limit is generous.
	MaxBodyBytes = 32 << 20 // 32 MiB

	readTimeout     = 30 * time.Second
	writeTimeout    = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config collects the server's dependencies.
type Config struct {
	// Addr is the listen address. Empty selects DefaultAddr.
	Addr string

	// Store persists named datasets. Empty means dataset routes
	// respond 404.
	Store store.Store

	// Cache backs the pipeline's relation and artifact caches.
	// Nil disables caching.
	Cache cache.Cache

	// Logger receives request and pipeline logs. Nil selects the
	// default logger.
	Logger *log.Logger
}

// Server is the nbmap render API server.
type Server struct {
	addr   string
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server from the config.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		addr:   cfg.Addr,
		store:  cfg.Store,
		runner: pipeline.NewRunner(cfg.Cache, nil, cfg.Logger),
		logger: cfg.Logger,
	}
}

// Handler returns the server's route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", s.handleListDatasets)
			r.Post("/", s.handleCreateDataset)
			r.Get("/{id}", s.handleGetDataset)
			r.Delete("/{id}", s.handleDeleteDataset)
			r.Get("/{id}/render", s.handleRenderDataset)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the runner's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
