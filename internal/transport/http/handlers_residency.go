package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/residency"
	"datagov/pkg/domain"
	"datagov/pkg/platform/httputil"
)

type residencyHandler struct {
	checker *residency.Checker
	logger  *slog.Logger
}

func newResidencyHandler(checker *residency.Checker, logger *slog.Logger) *residencyHandler {
	return &residencyHandler{checker: checker, logger: logger}
}

func (h *residencyHandler) register(r chi.Router) {
	r.Get("/tenants/{tenantID}/residency", h.handleResidencyInfo)
	r.Get("/tenants/{tenantID}/residency/compliance", h.handleVerifyCompliance)
}

func (h *residencyHandler) handleResidencyInfo(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	info, err := h.checker.ResidencyInfo(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *residencyHandler) handleVerifyCompliance(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.checker.VerifyCompliance(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
