package httpx

import (
	"log/slog"
	"net/http"

	"github.com/halyard-dev/halyard/internal/central"
	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/signing"
)

// CentralServices holds everything the Central router needs.
type CentralServices struct {
	Webhooks      *central.WebhookService
	Status        *central.StatusService
	Workers       core.WorkerRepository
	Orgs          core.OrgRepository
	Signer        *signing.Signer
	WebhookSecret []byte
	AdminToken    string
	MaxBodyBytes  int64
	Logger        *slog.Logger
}

// NewCentralRouter wires the orchestrator's HTTP surface.
func NewCentralRouter(services CentralServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	webhook := &WebhookHandlers{
		Svc:    services.Webhooks,
		Secret: services.WebhookSecret,
		Logger: logger.With("handler", "webhook"),
	}
	status := &StatusHandlers{
		Svc:     services.Status,
		Workers: services.Workers,
		Signer:  services.Signer,
		Logger:  logger.With("handler", "status"),
	}
	orgs := &OrgHandlers{
		Orgs:       services.Orgs,
		AdminToken: services.AdminToken,
		Logger:     logger.With("handler", "orgs"),
	}

	mux.HandleFunc("POST /webhook/github", webhook.Receive)
	mux.HandleFunc("POST /api/status", status.Update)
	mux.HandleFunc("POST /api/workers/heartbeat", status.Heartbeat)

	mux.HandleFunc("GET /api/admin/orgs", orgs.RequireAdmin(orgs.List))
	mux.HandleFunc("POST /api/admin/orgs", orgs.RequireAdmin(orgs.Create))
	mux.HandleFunc("GET /api/admin/orgs/{org}", orgs.RequireAdmin(orgs.Get))
	mux.HandleFunc("PUT /api/admin/orgs/{org}", orgs.RequireAdmin(orgs.Update))
	mux.HandleFunc("DELETE /api/admin/orgs/{org}", orgs.RequireAdmin(orgs.Delete))

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	return Chain(mux, Recover(logger), Logging(logger), MaxBody(services.MaxBodyBytes))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
