package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TheDarkness2001/SMS-sub001/internal/bootstrap"
	"github.com/TheDarkness2001/SMS-sub001/internal/config"
)

const (
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server owns the HTTP listener and the dependencies released when it stops.
type Server struct {
	config *config.Config
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration and wires storage, cache, services and routes.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	storage, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	store, cacheName, closeCache := bootstrap.SetupCache(ctx, cfg, lgr)
	deps := bootstrap.BuildDependencies(cfg, storage, store, cacheName, lgr)
	deps.SetCacheCloser(closeCache)

	return New(cfg, deps, bootstrap.SetupRouter(cfg, deps, lgr), lgr), nil
}

// New builds a server around an already wired handler.
func New(cfg *config.Config, deps *bootstrap.Dependencies, handler http.Handler, lgr zerolog.Logger) *Server {
	return &Server{
		config: cfg,
		deps:   deps,
		logger: lgr,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
			IdleTimeout:  idleTimeout,
		},
	}
}

// Run serves on the configured port until ctx ends or SIGINT/SIGTERM arrives.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		s.deps.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx ends, then drains in-flight requests and releases the
// database and cache.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(ln)
	}()
	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("driver", s.config.Database.Driver).
		Msg("Payments API listening")

	select {
	case err := <-serveErr:
		s.deps.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server stopped: %w", err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.deps.Close()
	if err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown error")
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info().Msg("Payments API stopped")
	return nil
}
