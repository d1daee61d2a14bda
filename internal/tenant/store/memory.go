package store

import (
	"context"
	"sync"

	"datagov/internal/tenant/models"
	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
)

// In-memory stores keep unit tests and local development free of Postgres.
// They intentionally favor clarity over performance.

type InMemoryTenants struct {
	mu      sync.RWMutex
	tenants map[domain.TenantID]models.Tenant
}

func NewInMemoryTenants() *InMemoryTenants {
	return &InMemoryTenants{tenants: make(map[domain.TenantID]models.Tenant)}
}

func (s *InMemoryTenants) Create(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[tenant.ID]; ok {
		return sentinel.ErrConflict
	}
	s.tenants[tenant.ID] = *tenant
	return nil
}

func (s *InMemoryTenants) FindByID(_ context.Context, id domain.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[id]; ok {
		copied := t
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

type InMemorySettings struct {
	mu       sync.RWMutex
	settings map[domain.TenantID]models.Settings
}

func NewInMemorySettings() *InMemorySettings {
	return &InMemorySettings{settings: make(map[domain.TenantID]models.Settings)}
}

func (s *InMemorySettings) FindByTenant(_ context.Context, id domain.TenantID) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.settings[id]; ok {
		copied := v
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemorySettings) Save(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.TenantID] = *settings
	return nil
}
