package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/halyard-dev/halyard/config"
)

// RunConfig groups everything RunWithShutdown needs. Exactly one of Central
// or Worker is set, matching the enabled service mode.
type RunConfig struct {
	Config  *config.AppConfig
	Central *Central
	Worker  *Worker
	Logger  *slog.Logger
}

// RunWithShutdown starts the enabled role and blocks until a shutdown signal
// arrives or a component fails.
func RunWithShutdown(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil {
		return errors.New("run config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	switch {
	case cfg.Central != nil:
		server := NewHTTPServer(cfg.Config.HTTP, cfg.Central.Handler)
		group.Go(func() error {
			return ServeHTTP(ctx, server, cfg.Config.HTTP.ShutdownTimeout, logger)
		})
		group.Go(func() error {
			return cfg.Central.Monitor.Run(ctx)
		})
	case cfg.Worker != nil:
		// Restore routes before accepting jobs so a freshly restarted
		// Caddy serves existing sites again. The wait is bounded; an
		// unreachable admin API must not block startup.
		cfg.Worker.RestoreRoutes(ctx)

		server := NewHTTPServer(cfg.Config.HTTP, cfg.Worker.Handler)
		group.Go(func() error {
			return ServeHTTP(ctx, server, cfg.Config.HTTP.ShutdownTimeout, logger)
		})
		group.Go(func() error {
			return cfg.Worker.Executor.Run(ctx)
		})
		group.Go(func() error {
			return cfg.Worker.RunHeartbeat(ctx)
		})
	default:
		return errors.New("no role wired")
	}

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
