package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/signing"
)

func newTestSigner(t *testing.T) *signing.Signer {
	t.Helper()
	clock := data.NewFixedTimeProvider(time.Now())
	signer, err := signing.New(signing.Options{Secret: []byte("test-shared-secret"), Clock: clock})
	require.NoError(t, err)
	return signer
}

func TestReporterSendsSignedUpdate(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	jobID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		sig := r.Header.Get(signing.HeaderWorkerSignature)
		ts, err := strconv.ParseInt(r.Header.Get(signing.HeaderTimestamp), 10, 64)
		require.NoError(t, err)
		require.NoError(t, signer.Verify(body, sig, ts))

		var update model.StatusUpdate
		require.NoError(t, json.Unmarshal(body, &update))
		assert.Equal(t, jobID, update.JobID)
		assert.Equal(t, model.JobStatusBuilding, update.Status)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewReporter(ReporterOptions{Signer: signer, Retries: 1})
	err := r.Report(context.Background(), srv.URL+"/api/status", &model.StatusUpdate{
		JobID:  jobID,
		Status: model.JobStatusBuilding,
	})
	require.NoError(t, err)
}

func TestReporterRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewReporter(ReporterOptions{Signer: newTestSigner(t), Retries: 5})
	err := r.Report(context.Background(), srv.URL, &model.StatusUpdate{
		JobID:  uuid.New(),
		Status: model.JobStatusSuccess,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestReporterGivesUpOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad signature", http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewReporter(ReporterOptions{Signer: newTestSigner(t), Retries: 5})
	err := r.Report(context.Background(), srv.URL, &model.StatusUpdate{
		JobID:  uuid.New(),
		Status: model.JobStatusFailed,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}
