// Package server builds and runs the generation server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/achneerov/dreamrender/pkg/platform"
)

// Version is set at build time.
var Version = "dev"

// New creates a platform from cfg.
func New(cfg *platform.Config, opts ...platform.Option) (*platform.Platform, error) {
	return platform.New(append([]platform.Option{platform.WithConfig(cfg)}, opts...)...)
}

// NewLogger builds the process logger described by cfg.
func NewLogger(cfg platform.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// HTTPServer returns an HTTP server for p's handler.
func HTTPServer(p *platform.Platform) *http.Server {
	cfg := p.Config().Server
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           p.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// Serve starts p and serves HTTP on ln until ctx is done. Shutdown withdraws
// readiness first, then drains in-flight requests within the configured
// shutdown timeout and stops the platform.
func Serve(ctx context.Context, p *platform.Platform, ln net.Listener) error {
	if err := p.Start(ctx); err != nil {
		_ = ln.Close()
		return err
	}

	srv := HTTPServer(p)
	timeout := p.Config().Server.ShutdownTimeout

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "address", ln.Addr().String(), "version", Version)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("server shutting down", "timeout", timeout)
		p.Health().SetDraining()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		return errors.Join(srv.Shutdown(shutdownCtx), p.Stop(shutdownCtx))
	})
	return g.Wait()
}
