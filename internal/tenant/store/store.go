// Package store persists tenants and their settings. Stores are
// interface-driven so the resolver and services stay testable against the
// in-memory implementation and swap to Postgres without rewiring.
package store

import (
	"context"

	"datagov/internal/tenant/models"
	"datagov/pkg/domain"
)

type TenantStore interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, id domain.TenantID) (*models.Tenant, error)
}

type SettingsStore interface {
	FindByTenant(ctx context.Context, id domain.TenantID) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}
