package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/retention"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/httputil"
	"datagov/pkg/requestcontext"
)

type retentionHandler struct {
	policies *retention.Service
	engine   *retention.Engine
	logger   *slog.Logger
}

func newRetentionHandler(policies *retention.Service, engine *retention.Engine, logger *slog.Logger) *retentionHandler {
	return &retentionHandler{policies: policies, engine: engine, logger: logger}
}

func (h *retentionHandler) register(r chi.Router) {
	r.Post("/retention/policies", h.handleCreatePolicy)
	r.Get("/retention/policies", h.handleListPolicies)
	r.Delete("/retention/policies/{policyID}", h.handleDeletePolicy)
	r.Post("/retention/apply", h.handleApply)
}

type createPolicyRequest struct {
	TenantID      string `json:"tenantId"`
	DataType      string `json:"dataType"`
	RetentionDays int    `json:"retentionDays"`
	AutoDelete    bool   `json:"autoDelete"`
}

func (h *retentionHandler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	tenantID, err := domain.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	dataType, err := domain.ParseDataType(req.DataType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	policy, err := h.policies.CreatePolicy(ctx, tenantID, dataType, req.RetentionDays, req.AutoDelete)
	if err != nil {
		h.logger.ErrorContext(ctx, "create retention policy failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, policy)
}

func (h *retentionHandler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	var tenantID domain.TenantID
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		parsed, err := domain.ParseTenantID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		tenantID = parsed
	}

	policies, err := h.policies.ListPolicies(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if policies == nil {
		policies = []*retention.Policy{}
	}
	httputil.WriteJSON(w, http.StatusOK, policies)
}

func (h *retentionHandler) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	policyID, err := domain.ParsePolicyID(chi.URLParam(r, "policyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.policies.DeletePolicy(r.Context(), policyID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *retentionHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var tenantID domain.TenantID
	if raw := r.URL.Query().Get("tenant_id"); raw != "" {
		parsed, err := domain.ParseTenantID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		tenantID = parsed
	}

	report, err := h.engine.Apply(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "retention run failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "retention run failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
