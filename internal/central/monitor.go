package central

import (
	"context"
	"log/slog"
	"time"

	"github.com/halyard-dev/halyard/internal/core"
)

// Monitor periodically probes worker health endpoints and fails deployment
// records stuck waiting on workers that never reported back.
type Monitor struct {
	workers  core.WorkerRepository
	records  core.RecordRepository
	probe    core.JobDispatcher
	interval time.Duration
	timeout  time.Duration
	staleAge time.Duration
	logger   *slog.Logger
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Workers  core.WorkerRepository
	Records  core.RecordRepository
	Probe    core.JobDispatcher
	Interval time.Duration
	Timeout  time.Duration
	// StaleAge is how long a record may sit in pending or building before
	// it is failed; it should comfortably exceed the worker build timeout.
	StaleAge time.Duration
	Logger   *slog.Logger
}

// NewMonitor creates a Monitor.
func NewMonitor(opts MonitorOptions) *Monitor {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	staleAge := opts.StaleAge
	if staleAge <= 0 {
		staleAge = time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		workers:  opts.Workers,
		records:  opts.Records,
		probe:    opts.Probe,
		interval: interval,
		timeout:  timeout,
		staleAge: staleAge,
		logger:   logger.With("component", "monitor"),
	}
}

// Run checks immediately, then on every tick until the context is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	m.tick(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

func (m *Monitor) tick(ctx context.Context) {
	m.checkWorkers(ctx)
	m.reapStale(ctx)
}

func (m *Monitor) checkWorkers(ctx context.Context) {
	workers, err := m.workers.ListEnabled(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to list workers", "err", err)
		return
	}

	for _, w := range workers {
		probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.probe.ProbeHealth(probeCtx, w.Endpoint)
		cancel()

		if err != nil {
			m.logger.WarnContext(ctx, "worker health check failed",
				"zone", w.Zone, "endpoint", w.Endpoint, "err", err)
			continue
		}
		if err := m.workers.TouchLastSeen(ctx, w.Zone); err != nil {
			m.logger.WarnContext(ctx, "failed to record worker health",
				"zone", w.Zone, "err", err)
		}
	}
}

func (m *Monitor) reapStale(ctx context.Context) {
	n, err := m.records.FailStale(ctx, int(m.staleAge.Seconds()))
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to reap stale records", "err", err)
		return
	}
	if n > 0 {
		m.logger.WarnContext(ctx, "failed stale deployment records", "count", n)
	}
}
