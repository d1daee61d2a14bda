package models

import (
	"time"

	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
)

// Tenant is the aggregate root for a tenant organization.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - DataRegion is one of the supported legal regions
//   - DataRegion rarely changes post-creation; settings may override it
type Tenant struct {
	ID         domain.TenantID   `json:"id"`
	Name       string            `json:"name"`
	Country    string            `json:"country"`
	DataRegion domain.DataRegion `json:"data_region"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Settings is the per-tenant override record, one-to-one with Tenant and
// created lazily on first read. DataRegion empty means "use the tenant
// default". Branding fields ride along because the surrounding application
// stores them on the same row; the engine only consults DataRegion.
type Settings struct {
	TenantID   domain.TenantID   `json:"tenant_id"`
	DataRegion domain.DataRegion `json:"data_region,omitempty"`
	BrandColor string            `json:"brand_color,omitempty"`
	LogoURL    string            `json:"logo_url,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewTenant validates invariants at construction.
func NewTenant(id domain.TenantID, name, country string, region domain.DataRegion, now time.Time) (*Tenant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	if !region.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant data region must be a supported region")
	}
	return &Tenant{
		ID:         id,
		Name:       name,
		Country:    country,
		DataRegion: region,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// EffectiveRegion applies the settings override when present and valid.
func (t *Tenant) EffectiveRegion(s *Settings) domain.DataRegion {
	if s != nil && s.DataRegion != "" && s.DataRegion.IsValid() {
		return s.DataRegion
	}
	return t.DataRegion
}
