// Package service exposes tenant settings with the lazy-creation lifecycle:
// a settings row appears on first read, defaulting from the tenant row.
package service

import (
	"context"
	"errors"
	"log/slog"

	"datagov/internal/tenant/models"
	"datagov/internal/tenant/store"
	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/sentinel"
	"datagov/pkg/requestcontext"
)

type Service struct {
	tenants  store.TenantStore
	settings store.SettingsStore
	logger   *slog.Logger
}

func New(tenants store.TenantStore, settings store.SettingsStore, logger *slog.Logger) *Service {
	return &Service{tenants: tenants, settings: settings, logger: logger}
}

// Tenant loads a tenant by ID.
func (s *Service) Tenant(ctx context.Context, id domain.TenantID) (*models.Tenant, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}
	return t, nil
}

// Settings returns the tenant's settings, creating them on first read with
// the data region defaulted from the tenant row.
func (s *Service) Settings(ctx context.Context, id domain.TenantID) (*models.Settings, error) {
	existing, err := s.settings.FindByTenant(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant settings")
	}

	tenant, err := s.Tenant(ctx, id)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	created := &models.Settings{
		TenantID:   tenant.ID,
		DataRegion: tenant.DataRegion,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.settings.Save(ctx, created); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant settings")
	}
	return created, nil
}
