// Package server provides the gateway's HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ollamagate/pkg/backend"
	"ollamagate/pkg/config"
	"ollamagate/pkg/endpoints"
	"ollamagate/pkg/history"
	"ollamagate/pkg/proxy/handlers"
	"ollamagate/pkg/proxy/middleware"
	"ollamagate/pkg/relay"
	"ollamagate/pkg/telemetry/metrics"
)

// Server is the gateway HTTP server.
type Server struct {
	config  *config.Config
	client  *backend.Client
	active  *endpoints.ActiveTarget
	relay   *relay.Relay
	history *history.Store
	metrics *metrics.Collector

	httpServer   *http.Server
	shutdownOnce sync.Once

	mu        sync.RWMutex
	isRunning bool
}

// Options collects the server's collaborators. History and Metrics may be
// nil when disabled.
type Options struct {
	Config  *config.Config
	Client  *backend.Client
	Active  *endpoints.ActiveTarget
	Relay   *relay.Relay
	History *history.Store
	Metrics *metrics.Collector
}

// New creates a gateway server.
func New(opts Options) *Server {
	return &Server{
		config:  opts.Config,
		client:  opts.Client,
		active:  opts.Active,
		relay:   opts.Relay,
		history: opts.History,
		metrics: opts.Metrics,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	// WriteTimeout stays zero: streaming relays may outlive any sane
	// bound, and the relay owns its own termination.
	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"endpoints", s.client.Registry().Len(),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway server stopped")
	})

	return shutdownErr
}

// Handler returns the fully configured HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/endpoints", handlers.NewEndpointsHandler(s.client))
	mux.Handle("/api/set-endpoint", handlers.NewSetEndpointHandler(s.client, s.active))
	mux.Handle("/api/ps", handlers.NewRunningModelsHandler(s.client))
	mux.Handle("/api/models", handlers.NewModelsHandler(s.client))

	var log handlers.OperationLog
	if s.history != nil {
		log = s.history
		mux.Handle("/api/history", handlers.NewHistoryHandler(s.history, s.config.History.Limit))
	}
	mux.Handle("/api/pull", handlers.NewPullHandler(s.relay, log))
	mux.Handle("/api/update-model", handlers.NewUpdateModelHandler(s.relay, log))

	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/ready", handlers.NewReadyHandler(s.client))

	if s.config.Metrics.Enabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Auth(s.config.Auth.APIKeys)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		Enabled:        s.config.Server.CORS.Enabled,
		AllowedOrigins: s.config.Server.CORS.AllowedOrigins,
	})(handler)
	handler = middleware.Logging(s.metrics)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true while the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
