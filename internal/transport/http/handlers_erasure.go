package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/erasure"
	"datagov/pkg/domain"
	"datagov/pkg/platform/httputil"
	"datagov/pkg/requestcontext"
)

type erasureHandler struct {
	svc    *erasure.Service
	logger *slog.Logger
}

func newErasureHandler(svc *erasure.Service, logger *slog.Logger) *erasureHandler {
	return &erasureHandler{svc: svc, logger: logger}
}

func (h *erasureHandler) register(r chi.Router) {
	r.Post("/tenants/{tenantID}/users/{userID}/anonymize", h.handleAnonymize)
	r.Delete("/tenants/{tenantID}/users/{userID}/data", h.handleDeleteUserData)
	r.Get("/tenants/{tenantID}/users/{userID}/export", h.handleExport)
	r.Get("/users/{userID}/erasure-receipts", h.handleReceipts)
}

type erasureRequest struct {
	Reason string `json:"reason"`
}

func (h *erasureHandler) ids(r *http.Request) (domain.TenantID, domain.UserID, error) {
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		return domain.TenantID{}, domain.UserID{}, err
	}
	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		return domain.TenantID{}, domain.UserID{}, err
	}
	return tenantID, userID, nil
}

// reason decodes the optional request body. An absent or empty body is fine;
// the service fills in the default.
func (h *erasureHandler) reason(r *http.Request) string {
	var req erasureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return req.Reason
}

func (h *erasureHandler) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, userID, err := h.ids(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.svc.Anonymize(ctx, tenantID, userID, h.reason(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "anonymize failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *erasureHandler) handleDeleteUserData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, userID, err := h.ids(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.svc.DeleteUserData(ctx, tenantID, userID, h.reason(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "user data deletion failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

func (h *erasureHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, err := h.ids(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	export, err := h.svc.ExportUserData(r.Context(), tenantID, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, export)
}

func (h *erasureHandler) handleReceipts(w http.ResponseWriter, r *http.Request) {
	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipts, err := h.svc.Receipts(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if receipts == nil {
		receipts = []*erasure.Receipt{}
	}
	httputil.WriteJSON(w, http.StatusOK, receipts)
}
