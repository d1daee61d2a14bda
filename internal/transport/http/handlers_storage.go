package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/storage"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/httputil"
	"datagov/pkg/requestcontext"
)

const maxUploadBytes = 32 << 20 // 32 MiB

type storageHandler struct {
	router *storage.Router
	logger *slog.Logger
}

func newStorageHandler(router *storage.Router, logger *slog.Logger) *storageHandler {
	return &storageHandler{router: router, logger: logger}
}

func (h *storageHandler) register(r chi.Router) {
	r.Post("/tenants/{tenantID}/files", h.handleUpload)
	r.Delete("/tenants/{tenantID}/files", h.handleDelete)
	r.Get("/tenants/{tenantID}/files/url", h.handleURL)
}

func (h *storageHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body"))
		return
	}
	path := r.FormValue("path")
	if path == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "path is required"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "file is required"))
		return
	}
	defer file.Close()

	url, err := h.router.Upload(ctx, path, file, header.Size, header.Header.Get("Content-Type"), tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload failed",
			"request_id", requestcontext.RequestID(ctx),
			"tenant_id", tenantID.String(),
			"path", path,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}

type deleteFileRequest struct {
	Path string `json:"path"`
}

func (h *storageHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req deleteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "path is required"))
		return
	}

	if err := h.router.Delete(ctx, req.Path, tenantID); err != nil {
		h.logger.ErrorContext(ctx, "delete failed",
			"request_id", requestcontext.RequestID(ctx),
			"tenant_id", tenantID.String(),
			"path", req.Path,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "delete file"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *storageHandler) handleURL(w http.ResponseWriter, r *http.Request) {
	tenantID, err := domain.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "path is required"))
		return
	}

	url, err := h.router.URL(r.Context(), path, tenantID)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "resolve url"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
