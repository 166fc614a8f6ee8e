package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/target/crewboard/config"
	"golang.org/x/sync/errgroup"
)

// ServerRunConfig groups what RunServer needs.
type ServerRunConfig struct {
	Config  *config.AppConfig
	Handler http.Handler
	Logger  *slog.Logger
	// Listener overrides Config.HTTP.Addr when set (tests).
	Listener net.Listener
}

// RunServer serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func RunServer(ctx context.Context, cfg ServerRunConfig) error {
	if cfg.Config == nil {
		return errors.New("server run config missing AppConfig")
	}
	if cfg.Handler == nil {
		return errors.New("server run config missing handler")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := newServer(cfg.Config.HTTP.Addr, cfg.Handler)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if cfg.Listener != nil {
			logger.Info("starting HTTP server", "addr", cfg.Listener.Addr().String())
			err = server.Serve(cfg.Listener)
		} else {
			logger.Info("starting HTTP server", "addr", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return shutdownServer(server, cfg.Config.HTTP.ShutdownTimeout, logger)
	})

	return g.Wait()
}
