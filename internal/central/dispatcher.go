// Package central implements the orchestrator: webhook intake, job dispatch,
// status reconciliation, PR comment upkeep, and worker health monitoring.
package central

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

	"github.com/cenkalti/backoff/v4"

	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/signing"
)

// Worker-side endpoints jobs are delivered to.
const (
	buildPath   = "/build"
	cleanupPath = "/cleanup"
	healthPath  = "/health"
)

// HTTPDispatcher delivers signed jobs to worker endpoints.
type HTTPDispatcher struct {
	client  *http.Client
	signer  *signing.Signer
	retries int
	logger  *slog.Logger
}

// DispatcherOptions configures an HTTPDispatcher.
type DispatcherOptions struct {
	Signer  *signing.Signer
	Timeout time.Duration
	Retries int
	Logger  *slog.Logger
}

// NewHTTPDispatcher creates an HTTPDispatcher.
func NewHTTPDispatcher(opts DispatcherOptions) *HTTPDispatcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPDispatcher{
		client:  &http.Client{Timeout: timeout},
		signer:  opts.Signer,
		retries: retries,
		logger:  logger.With("component", "dispatcher"),
	}
}

// DispatchBuild sends a build job to a worker.
func (d *HTTPDispatcher) DispatchBuild(ctx context.Context, endpoint string, job *model.BuildJob) error {
	return d.post(ctx, endpoint+buildPath, job)
}

// DispatchCleanup sends a cleanup job to a worker.
func (d *HTTPDispatcher) DispatchCleanup(ctx context.Context, endpoint string, job *model.CleanupJob) error {
	return d.post(ctx, endpoint+cleanupPath, job)
}

// ProbeHealth checks a worker's health endpoint. Any 2xx counts as healthy.
func (d *HTTPDispatcher) ProbeHealth(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe worker health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("worker health returned %d", resp.StatusCode)
	}
	return nil
}

// post signs and delivers one payload, retrying transient failures with
// exponential backoff. A 4xx response is permanent; anything else is retried
// up to the configured attempt count.
func (d *HTTPDispatcher) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := d.send(ctx, url, body); err != nil {
			d.logger.WarnContext(ctx, "dispatch attempt failed",
				"url", url, "attempt", attempt, "err", err)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(d.retries-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}
	return nil
}

func (d *HTTPDispatcher) send(ctx context.Context, url string, body []byte) error {
	// Each attempt is signed fresh so retries carry a current timestamp.
	sig, ts := d.signer.Sign(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderCentralSignature, sig)
	req.Header.Set(signing.HeaderTimestamp, strconv.FormatInt(ts, 10))

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver job: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusServiceUnavailable:
		// Worker queue is full; worth retrying.
		return fmt.Errorf("worker busy (503)")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("worker rejected job: %d %s", resp.StatusCode, detail))
	default:
		return fmt.Errorf("worker returned %d", resp.StatusCode)
	}
}
