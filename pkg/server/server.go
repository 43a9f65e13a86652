/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/cudalis/cudalis/pkg/catalog"
	"github.com/cudalis/cudalis/pkg/plan"
	"github.com/cudalis/cudalis/pkg/resolver"
)

// Server exposes the resolver and plan generator over HTTP.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	catalog     *catalog.Catalog
	resolver    *resolver.Resolver
	planner     *plan.Generator

	mu    sync.RWMutex
	ready bool
}

// New creates a server instance, loading the catalog per the config.
func New(config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var cat *catalog.Catalog
	var err error
	if config.CatalogPath != "" {
		cat, err = catalog.LoadFile(config.CatalogPath)
	} else {
		cat, err = catalog.Load()
	}
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      config,
		rateLimiter: rate.NewLimiter(config.RateLimit, config.RateLimitBurst),
		catalog: cat,
		// API resolutions target linux builds regardless of the host the
		// server happens to run on.
		resolver: resolver.New(resolver.WithHostOS("linux")),
		planner:  plan.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes and middleware.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints, no rate limiting.
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware.
	mux.HandleFunc("/v1/resolve", s.withMiddleware(s.handleResolve))
	mux.HandleFunc("/v1/plan", s.withMiddleware(s.handlePlan))
	mux.HandleFunc("/v1/catalog", s.withMiddleware(s.handleCatalog))

	return mux
}

// Handler returns the configured HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetReady marks the server as ready to serve traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.SetReady(true)

	slog.Info("starting server", "address", s.httpServer.Addr, "catalogEntries", s.catalog.Len())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run starts a server with the given configuration and graceful shutdown on
// SIGINT and SIGTERM.
func Run(config *Config) error {
	server, err := New(config)
	if err != nil {
		return fmt.Errorf("server setup: %w", err)
	}

	slog.Info("server config",
		"address", server.httpServer.Addr,
		"rateLimit", float64(server.config.RateLimit),
		"rateLimitBurst", server.config.RateLimitBurst,
		"readTimeout", server.config.ReadTimeout.String(),
		"writeTimeout", server.config.WriteTimeout.String(),
		"idleTimeout", server.config.IdleTimeout.String(),
		"shutdownTimeout", server.config.ShutdownTimeout.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
