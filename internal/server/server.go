// Package server exposes the tool registry over HTTP: one JSON endpoint per tool,
// a batch endpoint, the tool catalog, health and readiness endpoints and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/buildinfo"
	"github.com/skosovsky/toolbox/internal/config"
	"github.com/skosovsky/toolbox/internal/logging"
)

// Server serves a Registry over HTTP.
type Server struct {
	cfg        config.ServerConfig
	origins    []string
	registry   *toolbox.Registry
	info       buildinfo.Info
	httpServer *http.Server
	ready      atomic.Bool
}

// New returns a Server for registry. The server is not ready until Run starts listening.
func New(cfg *config.Config, registry *toolbox.Registry) *Server {
	s := &Server{
		cfg:      cfg.Server,
		origins:  cfg.CORS.AllowedOrigins,
		registry: registry,
		info:     buildinfo.Get(),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	return s
}

// SetReady marks the server as ready or not ready to take traffic.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Ready reports the readiness flag served on /ready.
func (s *Server) Ready() bool { return s.ready.Load() }

// Run listens on the configured address and serves until ctx is canceled, then
// drains in-flight requests and tool calls within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info().
			Str("addr", ln.Addr().String()).
			Str("version", s.info.Version).
			Int("tools", s.registry.Len()).
			Msg("server listening")
		s.SetReady(true)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	s.SetReady(false)
	logging.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	httpErr := s.httpServer.Shutdown(ctx)
	regErr := s.registry.Shutdown(ctx)
	if err := errors.Join(httpErr, regErr); err != nil {
		logging.Error().Err(err).Msg("shutdown incomplete")
		return err
	}
	logging.Info().Msg("server stopped")
	return nil
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}
