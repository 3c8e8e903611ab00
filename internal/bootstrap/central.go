package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/central"
	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/github"
	httpx "github.com/halyard-dev/halyard/internal/http"
	"github.com/halyard-dev/halyard/internal/signing"
)

// Central holds the orchestrator's wired services.
type Central struct {
	Webhooks *central.WebhookService
	Status   *central.StatusService
	Monitor  *central.Monitor
	Handler  http.Handler
}

// CentralDeps groups dependencies for Central initialization.
type CentralDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewCentral builds the orchestrator: repositories, GitHub App client, job
// dispatcher, and the webhook and status services behind the HTTP router.
func NewCentral(ctx context.Context, deps CentralDeps) (*Central, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.GitHub.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Central.ValidateWorkers(); err != nil {
		return nil, err
	}

	privateKey, err := cfg.GitHub.LoadPrivateKey()
	if err != nil {
		return nil, err
	}
	app, err := github.NewApp(github.AppOptions{
		AppID:      cfg.GitHub.AppID,
		PrivateKey: privateKey,
		BaseURL:    cfg.GitHub.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	gh := github.NewClient(app)

	signer, err := signing.New(signing.Options{Secret: []byte(cfg.SharedSecret)})
	if err != nil {
		return nil, fmt.Errorf("create job signer: %w", err)
	}

	configs := data.NewDeploymentConfigRepo(deps.DB)
	records := data.NewDeploymentRecordRepo(deps.DB)
	comments := data.NewPRCommentRepo(deps.DB)
	workers := data.NewWorkerRepo(deps.DB)
	orgs := data.NewAuthorizedOrgRepo(deps.DB)
	dedup := data.NewDeliveryDedupRepo(deps.RedisClient, cfg.Redis.DedupTTL)

	// The operator's zone mapping is the source of truth for worker
	// endpoints; reconcile it into the table on every startup.
	if err = workers.SyncEndpoints(ctx, cfg.Central.Workers); err != nil {
		return nil, fmt.Errorf("sync worker endpoints: %w", err)
	}

	dispatcher := central.NewHTTPDispatcher(central.DispatcherOptions{
		Signer:  signer,
		Timeout: cfg.Central.DispatchTimeout,
		Retries: cfg.Central.DispatchRetries,
		Logger:  logger,
	})

	webhooks := central.NewWebhookService(central.WebhookServiceOptions{
		Configs:         configs,
		Records:         records,
		Comments:        comments,
		Orgs:            orgs,
		Workers:         workers,
		Dedup:           dedup,
		GitHub:          gh,
		Dispatcher:      dispatcher,
		CallbackBaseURL: cfg.HTTP.BaseURL,
		Logger:          logger,
	})

	status := central.NewStatusService(central.StatusServiceOptions{
		Records: records,
		Configs: configs,
		GitHub:  gh,
		Logger:  logger,
	})

	monitor := central.NewMonitor(central.MonitorOptions{
		Workers:  workers,
		Records:  records,
		Probe:    dispatcher,
		Interval: cfg.Central.MonitorInterval,
		Timeout:  cfg.Central.MonitorTimeout,
		StaleAge: cfg.Central.StaleAge,
		Logger:   logger,
	})

	handler := httpx.NewCentralRouter(httpx.CentralServices{
		Webhooks:      webhooks,
		Status:        status,
		Workers:       workers,
		Orgs:          orgs,
		Signer:        signer,
		WebhookSecret: []byte(cfg.GitHub.WebhookSecret),
		AdminToken:    cfg.Central.AdminToken,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
		Logger:        logger,
	})

	return &Central{
		Webhooks: webhooks,
		Status:   status,
		Monitor:  monitor,
		Handler:  handler,
	}, nil
}
