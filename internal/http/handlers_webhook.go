package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/halyard-dev/halyard/internal/central"
	"github.com/halyard-dev/halyard/internal/signing"
)

// GitHub request headers consumed by the webhook endpoint.
const (
	headerGitHubEvent    = "X-GitHub-Event"
	headerGitHubDelivery = "X-GitHub-Delivery"
)

// webhookProcessTimeout bounds the async processing of one delivery.
const webhookProcessTimeout = 2 * time.Minute

// WebhookHandlers receives GitHub webhook deliveries.
type WebhookHandlers struct {
	Svc    *central.WebhookService
	Secret []byte
	Logger *slog.Logger
}

// Receive verifies the delivery and acknowledges it immediately; processing
// happens asynchronously so GitHub never times out waiting on a build
// dispatch. Only signature failures are reported to GitHub.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "unreadable_body", Err: err})
		return
	}

	sig := r.Header.Get(signing.HeaderGitHubSignature)
	if err := signing.VerifyGitHub(h.Secret, body, sig); err != nil {
		h.Logger.Warn("webhook signature rejected", "delivery", r.Header.Get(headerGitHubDelivery), "err", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "invalid_signature",
			Err:     errors.New("webhook signature verification failed"),
		})
		return
	}

	eventType := r.Header.Get(headerGitHubEvent)
	delivery := r.Header.Get(headerGitHubDelivery)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookProcessTimeout)
		defer cancel()
		if err := h.Svc.ProcessEvent(ctx, eventType, delivery, body); err != nil {
			h.Logger.Error("webhook processing failed",
				"event", eventType, "delivery", delivery, "err", err)
		}
	}()

	WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
