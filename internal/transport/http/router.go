// Package http wires the governance endpoints onto a chi router. Mutating
// operations (retention triggers, erasure, policy management) are admin
// actions behind the bearer-token middleware; compliance reads are open to
// the surrounding application.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"datagov/internal/consentlog"
	"datagov/internal/erasure"
	"datagov/internal/platform/middleware"
	"datagov/internal/residency"
	"datagov/internal/retention"
	"datagov/internal/storage"
)

// Deps carries the collaborators the router exposes. Everything is injected
// explicitly; handlers never reach for ambient state.
type Deps struct {
	Residency *residency.Checker
	Retention *retention.Service
	Engine    *retention.Engine
	Erasure   *erasure.Service
	Consents  *consentlog.Service
	Storage   *storage.Router
	Admin     *middleware.AdminValidator
	Logger    *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	requireAdmin := middleware.RequireAdmin(deps.Admin, deps.Logger)

	r.Route("/v1", func(r chi.Router) {
		newResidencyHandler(deps.Residency, deps.Logger).register(r)
		newConsentHandler(deps.Consents, deps.Logger).register(r)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			newRetentionHandler(deps.Retention, deps.Engine, deps.Logger).register(r)
			newErasureHandler(deps.Erasure, deps.Logger).register(r)
			newStorageHandler(deps.Storage, deps.Logger).register(r)
		})
	})

	return r
}
