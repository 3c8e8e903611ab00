package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/halyard-dev/halyard/config"
	httpx "github.com/halyard-dev/halyard/internal/http"
	"github.com/halyard-dev/halyard/internal/signing"
	"github.com/halyard-dev/halyard/internal/worker"
	"github.com/halyard-dev/halyard/internal/worker/caddy"
	"github.com/halyard-dev/halyard/internal/worker/isolation"
)

const heartbeatInterval = 30 * time.Second

// restoreTimeout caps how long startup waits for the Caddy admin API before
// proceeding without restored routes.
const restoreTimeout = 60 * time.Second

// Worker holds one zone's wired build service.
type Worker struct {
	Executor *worker.Executor
	Routes   *caddy.Manager
	Handler  http.Handler

	heart  *heartbeat
	logger *slog.Logger
}

// WorkerDeps groups dependencies for Worker initialization.
type WorkerDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// NewWorker builds the zone worker: route manager, build isolation, cloner,
// status reporter, and the job executor behind the HTTP router.
func NewWorker(deps WorkerDeps) (*Worker, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Worker.Validate(); err != nil {
		return nil, err
	}

	signer, err := signing.New(signing.Options{Secret: []byte(cfg.SharedSecret)})
	if err != nil {
		return nil, fmt.Errorf("create job signer: %w", err)
	}

	routes := caddy.NewManager(caddy.Options{
		AdminURL: cfg.Worker.CaddyAdminAPI,
		SitesDir: cfg.Worker.SitesDir,
		Logger:   logger,
	})

	runner := isolation.NewManager(isolation.Options{
		Config: cfg.Isolation,
		Logger: logger,
	})

	reporter := worker.NewReporter(worker.ReporterOptions{
		Signer:  signer,
		Retries: cfg.Worker.CallbackRetries,
		Logger:  logger,
	})

	executor := worker.NewExecutor(worker.ExecutorOptions{
		Config:   cfg.Worker,
		Cloner:   worker.NewGitCloner(logger),
		Runner:   runner,
		Routes:   routes,
		Reporter: reporter,
		Logger:   logger,
	})

	handler := httpx.NewWorkerRouter(httpx.WorkerServices{
		Executor:     executor,
		Signer:       signer,
		Zone:         cfg.Worker.Zone,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Logger:       logger,
	})

	return &Worker{
		Executor: executor,
		Routes:   routes,
		Handler:  handler,
		heart: &heartbeat{
			client: &http.Client{Timeout: 10 * time.Second},
			signer: signer,
			url:    cfg.Worker.CentralURL + "/api/workers/heartbeat",
			zone:   cfg.Worker.Zone,
			logger: logger.With("component", "heartbeat"),
		},
		logger: logger,
	}, nil
}

// RestoreRoutes republishes routes for sites already on disk. Called once on
// startup so a Caddy restart does not orphan deployed sites.
func (w *Worker) RestoreRoutes(ctx context.Context) {
	// Bound the wait for the admin API so an unreachable Caddy delays
	// startup instead of blocking it; the worker still serves jobs.
	ctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()

	restored, err := w.Routes.RestoreRoutes(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "route restoration failed, continuing without restored routes", "err", err)
		return
	}
	w.logger.InfoContext(ctx, "routes restored", "count", restored)
}

// RunHeartbeat reports this zone to Central until the context ends.
func (w *Worker) RunHeartbeat(ctx context.Context) error {
	return w.heart.run(ctx)
}

// heartbeat periodically tells Central this zone is alive. It complements
// Central's own health probes: a worker behind NAT can still be monitored.
type heartbeat struct {
	client *http.Client
	signer *signing.Signer
	url    string
	zone   string
	logger *slog.Logger
}

func (h *heartbeat) run(ctx context.Context) error {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := h.beat(ctx); err != nil {
				h.logger.WarnContext(ctx, "heartbeat failed", "err", err)
			}
		}
	}
}

func (h *heartbeat) beat(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"zone": h.zone})
	if err != nil {
		return err
	}
	sig, ts := h.signer.Sign(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderWorkerSignature, sig)
	req.Header.Set(signing.HeaderTimestamp, strconv.FormatInt(ts, 10))

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("central answered %d", resp.StatusCode)
	}
	return nil
}
