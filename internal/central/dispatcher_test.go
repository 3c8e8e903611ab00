package central

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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

func newTestDispatcher(t *testing.T, retries int) (*HTTPDispatcher, *signing.Signer) {
	t.Helper()
	signer, err := signing.New(signing.Options{
		Secret: []byte("dispatch-secret"),
		Clock:  data.NewFixedTimeProvider(time.Unix(1700000000, 0)),
	})
	require.NoError(t, err)
	return NewHTTPDispatcher(DispatcherOptions{
		Signer:  signer,
		Timeout: 5 * time.Second,
		Retries: retries,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), signer
}

func testBuildJob() *model.BuildJob {
	pr := 7
	return &model.BuildJob{
		JobID:       uuid.New(),
		RepoURL:     "https://github.com/acme/website.git",
		GitToken:    "ghs_token",
		Branch:      "feature",
		CommitSHA:   "abc1234def5678",
		PRNumber:    &pr,
		Domain:      "website-pr-7.example.com",
		SiteType:    model.SiteTypeZola,
		CallbackURL: "https://central.example.com/api/status",
		RepoName:    "website",
		OrgName:     "acme",
	}
}

func TestDispatchBuildSignsPayload(t *testing.T) {
	dispatcher, signer := newTestDispatcher(t, 1)

	var gotJob model.BuildJob
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/build", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		ts, err := signing.ParseTimestamp(r.Header.Get(signing.HeaderTimestamp))
		require.NoError(t, err)
		require.NoError(t, signer.Verify(body, r.Header.Get(signing.HeaderCentralSignature), ts))

		require.NoError(t, json.Unmarshal(body, &gotJob))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	job := testBuildJob()
	err := dispatcher.DispatchBuild(context.Background(), server.URL, job)
	require.NoError(t, err)
	assert.Equal(t, job.JobID, gotJob.JobID)
	assert.Equal(t, job.Domain, gotJob.Domain)
}

func TestDispatchCleanupHitsCleanupPath(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, 1)

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := dispatcher.DispatchCleanup(context.Background(), server.URL, &model.CleanupJob{
		JobID:       uuid.New(),
		SiteID:      "acme-website-pr-7",
		CallbackURL: "https://central.example.com/api/status",
	})
	require.NoError(t, err)
	assert.Equal(t, "/cleanup", gotPath)
}

func TestDispatchRetriesTransientFailure(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, 3)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := dispatcher.DispatchBuild(context.Background(), server.URL, testBuildJob())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatchRejectionIsPermanent(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, 3)

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := dispatcher.DispatchBuild(context.Background(), server.URL, testBuildJob())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestProbeHealth(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t, 1)

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	assert.NoError(t, dispatcher.ProbeHealth(context.Background(), healthy.URL))
	assert.Error(t, dispatcher.ProbeHealth(context.Background(), broken.URL))
}
