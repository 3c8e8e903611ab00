package httpx

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/data"
)

// OrgHandlers exposes the deploy allow-list over the admin API. Every route
// requires the bearer admin token.
type OrgHandlers struct {
	Orgs       core.OrgRepository
	AdminToken string
	Logger     *slog.Logger
}

// orgRequest is the request body for creating or updating an allow-list entry.
type orgRequest struct {
	GitHubOrg      string   `json:"github_org"`
	Zones          []string `json:"zones"`
	DomainPatterns []string `json:"domain_patterns"`
	Enabled        bool     `json:"enabled"`
}

// RequireAdmin guards a handler with the bearer admin token.
func (h *OrgHandlers) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.AdminToken == "" {
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "admin_disabled",
				Err:     errors.New("admin API is not configured"),
			})
			return
		}
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.AdminToken)) != 1 {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_admin_token",
				Err:     errors.New("missing or invalid admin token"),
			})
			return
		}
		next(w, r)
	}
}

// List returns every allow-list entry.
func (h *OrgHandlers) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Orgs.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, orgs)
}

// Create adds an org to the allow-list.
func (h *OrgHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req orgRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	org, err := h.Orgs.Create(r.Context(), data.AuthorizedOrgParams{
		GitHubOrg:      req.GitHubOrg,
		Zones:          req.Zones,
		DomainPatterns: req.DomainPatterns,
		Enabled:        req.Enabled,
	})
	switch {
	case errors.Is(err, data.ErrOrgAlreadyExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "org_exists", Err: err})
	case err != nil:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "create_failed", Err: err})
	default:
		h.Logger.Info("authorized org created", "org", org.GitHubOrg, "zones", org.Zones)
		WriteJSON(w, http.StatusCreated, org)
	}
}

// Get returns one allow-list entry by org name.
func (h *OrgHandlers) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.Orgs.GetByOrg(r.Context(), r.PathValue("org"))
	switch {
	case errors.Is(err, data.ErrOrgNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "org_not_found", Err: err})
	case err != nil:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
	default:
		WriteJSON(w, http.StatusOK, org)
	}
}

// Update replaces an allow-list entry.
func (h *OrgHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req orgRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	org, err := h.Orgs.Update(r.Context(), r.PathValue("org"), data.AuthorizedOrgParams{
		GitHubOrg:      req.GitHubOrg,
		Zones:          req.Zones,
		DomainPatterns: req.DomainPatterns,
		Enabled:        req.Enabled,
	})
	switch {
	case errors.Is(err, data.ErrOrgNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "org_not_found", Err: err})
	case err != nil:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "update_failed", Err: err})
	default:
		h.Logger.Info("authorized org updated", "org", org.GitHubOrg, "zones", org.Zones)
		WriteJSON(w, http.StatusOK, org)
	}
}

// Delete removes an org from the allow-list.
func (h *OrgHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("org")
	err := h.Orgs.Delete(r.Context(), name)
	switch {
	case errors.Is(err, data.ErrOrgNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "org_not_found", Err: err})
	case err != nil:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
	default:
		h.Logger.Info("authorized org deleted", "org", name)
		w.WriteHeader(http.StatusNoContent)
	}
}
