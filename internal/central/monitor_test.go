package central

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/mocks"
)

func newTestMonitor(t *testing.T) (*Monitor, *mocks.MockWorkerRepository, *mocks.MockRecordRepository, *mocks.MockJobDispatcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	workers := mocks.NewMockWorkerRepository(ctrl)
	records := mocks.NewMockRecordRepository(ctrl)
	probe := mocks.NewMockJobDispatcher(ctrl)
	monitor := NewMonitor(MonitorOptions{
		Workers:  workers,
		Records:  records,
		Probe:    probe,
		Interval: time.Minute,
		Timeout:  time.Second,
		StaleAge: time.Hour,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return monitor, workers, records, probe
}

func TestMonitorTouchesHealthyWorkers(t *testing.T) {
	monitor, workers, records, probe := newTestMonitor(t)
	ctx := context.Background()

	workers.EXPECT().ListEnabled(ctx).Return([]*model.WorkerEndpoint{
		{Zone: "production", Endpoint: "https://worker.example.com"},
		{Zone: "staging", Endpoint: "https://staging.example.com"},
	}, nil)
	probe.EXPECT().ProbeHealth(gomock.Any(), "https://worker.example.com").Return(nil)
	probe.EXPECT().ProbeHealth(gomock.Any(), "https://staging.example.com").Return(assert.AnError)
	// Only the healthy zone is touched.
	workers.EXPECT().TouchLastSeen(ctx, "production").Return(nil)
	records.EXPECT().FailStale(ctx, 3600).Return(int64(0), nil)

	monitor.tick(ctx)
}

func TestMonitorReapsStaleRecords(t *testing.T) {
	monitor, workers, records, _ := newTestMonitor(t)
	ctx := context.Background()

	workers.EXPECT().ListEnabled(ctx).Return(nil, nil)
	records.EXPECT().FailStale(ctx, 3600).Return(int64(2), nil)

	monitor.tick(ctx)
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	monitor, workers, records, _ := newTestMonitor(t)

	workers.EXPECT().ListEnabled(gomock.Any()).Return(nil, nil).AnyTimes()
	records.EXPECT().FailStale(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on cancel")
	}
}
