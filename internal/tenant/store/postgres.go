package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"datagov/internal/tenant/models"
	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
	txcontext "datagov/pkg/platform/tx"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresTenants persists tenants in PostgreSQL.
type PostgresTenants struct {
	db *sql.DB
}

func NewPostgresTenants(db *sql.DB) *PostgresTenants {
	return &PostgresTenants{db: db}
}

func (s *PostgresTenants) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresTenants) Create(ctx context.Context, tenant *models.Tenant) error {
	const query = `
		INSERT INTO tenants (id, name, country, data_region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(tenant.ID), tenant.Name, tenant.Country, tenant.DataRegion.String(),
		tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresTenants) FindByID(ctx context.Context, id domain.TenantID) (*models.Tenant, error) {
	const query = `
		SELECT id, name, country, data_region, created_at, updated_at
		FROM tenants WHERE id = $1
	`
	var (
		t      models.Tenant
		tid    uuid.UUID
		region string
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&tid, &t.Name, &t.Country, &region, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	t.ID = domain.TenantID(tid)
	t.DataRegion = domain.DataRegion(region)
	return &t, nil
}

// PostgresSettings persists per-tenant setting overrides.
type PostgresSettings struct {
	db *sql.DB
}

func NewPostgresSettings(db *sql.DB) *PostgresSettings {
	return &PostgresSettings{db: db}
}

func (s *PostgresSettings) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresSettings) FindByTenant(ctx context.Context, id domain.TenantID) (*models.Settings, error) {
	const query = `
		SELECT tenant_id, data_region, brand_color, logo_url, created_at, updated_at
		FROM tenant_settings WHERE tenant_id = $1
	`
	var (
		set    models.Settings
		tid    uuid.UUID
		region sql.NullString
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&tid, &region, &set.BrandColor, &set.LogoURL, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant settings: %w", err)
	}
	set.TenantID = domain.TenantID(tid)
	if region.Valid {
		set.DataRegion = domain.DataRegion(region.String)
	}
	return &set, nil
}

func (s *PostgresSettings) Save(ctx context.Context, settings *models.Settings) error {
	const query = `
		INSERT INTO tenant_settings (tenant_id, data_region, brand_color, logo_url, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			data_region = NULLIF($2, ''),
			brand_color = $3,
			logo_url = $4,
			updated_at = $6
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(settings.TenantID), settings.DataRegion.String(), settings.BrandColor,
		settings.LogoURL, settings.CreatedAt, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save tenant settings: %w", err)
	}
	return nil
}
