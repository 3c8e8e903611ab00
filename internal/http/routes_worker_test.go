package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/signing"
	"github.com/halyard-dev/halyard/internal/worker"
)

type workerFixture struct {
	handler http.Handler
	signer  *signing.Signer
}

// newWorkerFixture wires a real executor whose queue is never drained, so
// enqueue acceptance and saturation can be observed through the HTTP surface.
func newWorkerFixture(t *testing.T, queueDepth int) *workerFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	signer, err := signing.New(signing.Options{
		Secret: []byte(testSharedSecret),
		Clock:  data.NewFixedTimeProvider(time.Unix(1700000000, 0)),
	})
	require.NoError(t, err)

	executor := worker.NewExecutor(worker.ExecutorOptions{
		Config: config.WorkerConfig{
			Zone:        "production",
			Concurrency: 1,
			QueueDepth:  queueDepth,
		},
		Logger: logger,
	})

	handler := NewWorkerRouter(WorkerServices{
		Executor:     executor,
		Signer:       signer,
		Zone:         "production",
		MaxBodyBytes: 1 << 20,
		Logger:       logger,
	})
	return &workerFixture{handler: handler, signer: signer}
}

func (f *workerFixture) signedJobRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	sig, ts := f.signer.Sign(body)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderCentralSignature, sig)
	req.Header.Set(signing.HeaderTimestamp, strconv.FormatInt(ts, 10))
	return req
}

func validBuildJob() model.BuildJob {
	pr := 7
	return model.BuildJob{
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

func TestBuildRequiresSignature(t *testing.T) {
	f := newWorkerFixture(t, 2)

	body, err := json.Marshal(validBuildJob())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/build", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildRejectsTamperedBody(t *testing.T) {
	f := newWorkerFixture(t, 2)

	req := f.signedJobRequest(t, "/build", validBuildJob())
	tampered, err := json.Marshal(validBuildJob())
	require.NoError(t, err)
	req.Body = io.NopCloser(bytes.NewReader(tampered))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildAccepted(t *testing.T) {
	f := newWorkerFixture(t, 2)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, f.signedJobRequest(t, "/build", validBuildJob()))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, rec.Body.String())
}

func TestBuildRejectsInvalidJob(t *testing.T) {
	f := newWorkerFixture(t, 2)

	job := validBuildJob()
	job.Domain = ""

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, f.signedJobRequest(t, "/build", job))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuildQueueSaturation(t *testing.T) {
	f := newWorkerFixture(t, 1)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, f.signedJobRequest(t, "/build", validBuildJob()))
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, f.signedJobRequest(t, "/build", validBuildJob()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queue_full", resp["error"])
}

func TestCleanupAccepted(t *testing.T) {
	f := newWorkerFixture(t, 2)

	job := model.CleanupJob{
		JobID:       uuid.New(),
		SiteID:      "acme-website-pr-7",
		CallbackURL: "https://central.example.com/api/status",
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, f.signedJobRequest(t, "/cleanup", job))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestWorkerHealthReportsZone(t *testing.T) {
	f := newWorkerFixture(t, 2)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","zone":"production"}`, rec.Body.String())
}
