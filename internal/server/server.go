// Package server exposes the type catalog, live instances and snapshots
// over HTTP, with websocket live editing.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/metrics"
	"github.com/conduit-lang/inspector/internal/scene"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/metadata"
)

// Config holds server configuration
type Config struct {
	// Addr is the listen address (e.g., "localhost:7070")
	Addr string

	// JWTSecret enables bearer auth on /api and /ws when not empty
	JWTSecret string

	// TokenTTL is the lifetime of issued tokens
	TokenTTL time.Duration

	// Style holds the editor defaults used for frames
	Style metadata.Style

	// Seed creates one instance per catalog type, using the type name as id
	Seed bool

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the configuration used by `inspector serve`
func DefaultConfig() Config {
	return Config{
		Addr:            "localhost:7070",
		TokenTTL:        time.Hour,
		Style:           metadata.DefaultStyle(),
		Seed:            true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the inspector API
type Server struct {
	config    Config
	catalog   *metadata.Catalog
	store     store.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
	tokens    *TokenService
	instances *instances
	upgrader  websocket.Upgrader
	router    chi.Router
}

// New creates a server over the demo catalog. The metrics and logger may be
// nil.
func New(config Config, st store.Store, m *metrics.Metrics, logger *zap.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("server requires a snapshot store")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Style == (metadata.Style{}) {
		config.Style = metadata.DefaultStyle()
	}

	s := &Server{
		config:    config,
		catalog:   scene.Catalog(),
		store:     st,
		metrics:   m,
		logger:    logger,
		instances: newInstances(scene.New),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if config.JWTSecret != "" {
		s.tokens = NewTokenService(config.JWTSecret, config.TokenTTL)
	}

	if config.Seed {
		for _, name := range s.catalog.Names() {
			if _, err := s.instances.create(name, name); err != nil {
				return nil, fmt.Errorf("failed to seed %s: %w", name, err)
			}
		}
	}

	s.router = s.routes()
	return s, nil
}

// Tokens returns the token service, or nil when auth is disabled
func (s *Server) Tokens() *TokenService {
	return s.tokens
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.tokens != nil {
			r.Use(s.tokens.Authenticate)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/types", s.handleListTypes)
			r.Get("/types/{name}", s.handleGetType)
			r.Get("/types/{name}/deps", s.handleTypeDeps)

			r.Get("/instances", s.handleListInstances)
			r.Post("/instances", s.handleCreateInstance)
			r.Delete("/instances/{id}", s.handleDeleteInstance)
			r.Get("/instances/{id}/document", s.handleDocument)
			r.Get("/instances/{id}/frame", s.handleFrame)
			r.Post("/instances/{id}/edits", s.handleEdits)
			r.Post("/instances/{id}/snapshots", s.handleCreateSnapshot)

			r.Get("/snapshots", s.handleListSnapshots)
			r.Get("/snapshots/{sid}", s.handleGetSnapshot)
			r.Delete("/snapshots/{sid}", s.handleDeleteSnapshot)
		})

		r.Get("/ws/instances/{id}", s.handleLive)
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.config.Addr), zap.Bool("auth", s.tokens != nil))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
