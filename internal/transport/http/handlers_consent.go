package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/consentlog"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/httputil"
	"datagov/pkg/requestcontext"
)

type consentHandler struct {
	svc    *consentlog.Service
	logger *slog.Logger
}

func newConsentHandler(svc *consentlog.Service, logger *slog.Logger) *consentHandler {
	return &consentHandler{svc: svc, logger: logger}
}

func (h *consentHandler) register(r chi.Router) {
	r.Post("/tenants/{tenantID}/consents", h.handleLogConsent)
	r.Get("/tenants/{tenantID}/consents", h.handleGetConsents)
}

type logConsentRequest struct {
	UserID      string `json:"userId"`
	ConsentType string `json:"consentType"`
	Granted     bool   `json:"granted"`
}

func (h *consentHandler) handleLogConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req logConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	consentType, err := domain.ParseConsentType(req.ConsentType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var userID domain.UserID
	if req.UserID != "" {
		userID, err = domain.ParseUserID(req.UserID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	entry, err := h.svc.LogConsent(ctx, tenantID, userID, consentType, req.Granted)
	if err != nil {
		h.logger.ErrorContext(ctx, "log consent failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}

func (h *consentHandler) handleGetConsents(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var userID domain.UserID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err = domain.ParseUserID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	entries, err := h.svc.GetConsents(r.Context(), tenantID, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []*consentlog.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
