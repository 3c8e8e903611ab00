package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/halyard-dev/halyard/internal/central"
	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/signing"
)

// StatusHandlers receives signed status callbacks and heartbeats from workers.
type StatusHandlers struct {
	Svc     *central.StatusService
	Workers core.WorkerRepository
	Signer  *signing.Signer
	Logger  *slog.Logger
}

// Update applies one worker status callback.
func (h *StatusHandlers) Update(w http.ResponseWriter, r *http.Request) {
	body, ok := readSignedBody(w, r, h.Signer, signing.HeaderWorkerSignature)
	if !ok {
		return
	}

	var update model.StatusUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}
	if err := update.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_status", Err: err})
		return
	}

	if err := h.Svc.HandleUpdate(r.Context(), &update); err != nil {
		h.Logger.Error("status update failed", "job_id", update.JobID, "err", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "status_update_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// heartbeatRequest is the signed body of a worker heartbeat.
type heartbeatRequest struct {
	Zone string `json:"zone"`
}

// Heartbeat marks a worker zone as recently seen.
func (h *StatusHandlers) Heartbeat(w http.ResponseWriter, r *http.Request) {
	body, ok := readSignedBody(w, r, h.Signer, signing.HeaderWorkerSignature)
	if !ok {
		return
	}

	var req heartbeatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return
	}

	if err := h.Workers.TouchLastSeen(r.Context(), req.Zone); err != nil {
		h.Logger.Warn("heartbeat for unknown zone", "zone", req.Zone, "err", err)
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "unknown_zone", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
