package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/signing"
	"github.com/halyard-dev/halyard/internal/worker"
)

// WorkerServices holds everything the worker router needs.
type WorkerServices struct {
	Executor     *worker.Executor
	Signer       *signing.Signer
	Zone         string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// JobHandlers receives signed jobs from the orchestrator.
type JobHandlers struct {
	Executor *worker.Executor
	Signer   *signing.Signer
	Logger   *slog.Logger
}

// NewWorkerRouter wires the worker's HTTP surface.
func NewWorkerRouter(services WorkerServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jobs := &JobHandlers{
		Executor: services.Executor,
		Signer:   services.Signer,
		Logger:   logger.With("handler", "jobs"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /build", jobs.Build)
	mux.HandleFunc("POST /cleanup", jobs.Cleanup)

	zone := services.Zone
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "zone": zone})
	})

	return Chain(mux, Recover(logger), Logging(logger), MaxBody(services.MaxBodyBytes))
}

// Build accepts a build job. The job is queued and built asynchronously; a
// full queue answers 503 so the orchestrator backs off and retries.
func (h *JobHandlers) Build(w http.ResponseWriter, r *http.Request) {
	body, ok := readSignedBody(w, r, h.Signer, signing.HeaderCentralSignature)
	if !ok {
		return
	}

	var job model.BuildJob
	if err := json.Unmarshal(body, &job); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}
	if err := job.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_job", Err: err})
		return
	}

	if err := h.Executor.EnqueueBuild(&job); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			h.Logger.Warn("build queue full, rejecting job", "job_id", job.JobID)
			WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "queue_full", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "enqueue_failed", Err: err})
		return
	}

	h.Logger.Info("build job accepted",
		"job_id", job.JobID, "org", job.OrgName, "repo", job.RepoName, "pr", job.PRNumber)
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Cleanup accepts a cleanup job.
func (h *JobHandlers) Cleanup(w http.ResponseWriter, r *http.Request) {
	body, ok := readSignedBody(w, r, h.Signer, signing.HeaderCentralSignature)
	if !ok {
		return
	}

	var job model.CleanupJob
	if err := json.Unmarshal(body, &job); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}
	if err := job.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_job", Err: err})
		return
	}

	if err := h.Executor.EnqueueCleanup(&job); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			h.Logger.Warn("queue full, rejecting cleanup", "job_id", job.JobID)
			WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "queue_full", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "enqueue_failed", Err: err})
		return
	}

	h.Logger.Info("cleanup job accepted", "job_id", job.JobID, "site_id", job.SiteID)
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
