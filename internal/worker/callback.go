package worker

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

// Reporter implements core.StatusReporter: it posts signed status updates
// back to Central and retries transient failures. A job whose final status
// never reaches Central is logged as an orphan; Central's stale-job reaper
// eventually fails it.
type Reporter struct {
	client  *http.Client
	signer  *signing.Signer
	retries int
	logger  *slog.Logger
}

// ReporterOptions configures a Reporter.
type ReporterOptions struct {
	Signer  *signing.Signer
	Timeout time.Duration
	Retries int
	Logger  *slog.Logger
}

// NewReporter creates a Reporter.
func NewReporter(opts ReporterOptions) *Reporter {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		client:  &http.Client{Timeout: timeout},
		signer:  opts.Signer,
		retries: retries,
		logger:  logger.With("component", "callback"),
	}
}

// Report delivers one status update to Central's callback URL.
func (r *Reporter) Report(ctx context.Context, callbackURL string, update *model.StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := r.send(ctx, callbackURL, body); err != nil {
			r.logger.WarnContext(ctx, "status callback attempt failed",
				"job_id", update.JobID, "status", update.Status, "attempt", attempt, "err", err)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(r.retries-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		r.logger.ErrorContext(ctx, "status update never reached orchestrator, job is orphaned",
			"job_id", update.JobID, "status", update.Status, "err", err)
		return fmt.Errorf("report status: %w", err)
	}
	return nil
}

func (r *Reporter) send(ctx context.Context, url string, body []byte) error {
	sig, ts := r.signer.Sign(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderWorkerSignature, sig)
	req.Header.Set(signing.HeaderTimestamp, strconv.FormatInt(ts, 10))

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver status update: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoff.Permanent(fmt.Errorf("orchestrator rejected status: %d %s", resp.StatusCode, detail))
	}
	return fmt.Errorf("orchestrator returned %d: %s", resp.StatusCode, detail)
}
