// Command halyard runs either the Central orchestrator or a zone Worker,
// selected by the SERVICES environment variable.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg

	logger.InfoContext(ctx, "starting halyard",
		"services", bootstrap.EnabledServiceNames(cfgPtr),
		"addr", cfg.HTTP.Addr)

	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	if cfg.IsWorkerEnabled() {
		return runWorker(ctx, cfgPtr, logger)
	}
	return runCentral(ctx, cfgPtr, logger)
}

func runCentral(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	db, redisClient, err := initInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	central, err := bootstrap.NewCentral(ctx, bootstrap.CentralDeps{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		Config:  cfg,
		Central: central,
		Logger:  logger,
	})
}

func runWorker(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	worker, err := bootstrap.NewWorker(bootstrap.WorkerDeps{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		Config: cfg,
		Worker: worker,
		Logger: logger,
	})
}

// initInfrastructure connects shared dependencies used by the orchestrator.
//
//nolint:ireturn // returning redis.UniversalClient matches the dedup repository port.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cfg.Postgres,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database after redis connect failure", "error", cerr)
			return nil, nil, fmt.Errorf("connect redis: %w", errors.Join(err, fmt.Errorf("close database: %w", cerr)))
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	return db, redisClient, nil
}
