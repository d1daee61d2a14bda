package retention

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
	txcontext "datagov/pkg/platform/tx"
)

// Postgres implements Store. The (tenant_id, data_type) unique constraint
// backs the one-policy-per-pair upsert.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Upsert(ctx context.Context, policy *Policy) (*Policy, error) {
	const query = `
		INSERT INTO retention_policies (id, tenant_id, data_type, retention_days, auto_delete, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (tenant_id, data_type) DO UPDATE
			SET retention_days = EXCLUDED.retention_days,
			    auto_delete = EXCLUDED.auto_delete,
			    updated_at = EXCLUDED.updated_at
		RETURNING id, tenant_id, data_type, retention_days, auto_delete, created_at, updated_at
	`
	row := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(policy.ID),
		uuid.UUID(policy.TenantID),
		policy.DataType.String(),
		policy.RetentionDays,
		policy.AutoDelete,
		policy.UpdatedAt,
	)
	out, err := scanPolicy(row)
	if err != nil {
		return nil, fmt.Errorf("upsert retention policy: %w", err)
	}
	return out, nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.PolicyID) (*Policy, error) {
	const query = `
		SELECT id, tenant_id, data_type, retention_days, auto_delete, created_at, updated_at
		FROM retention_policies
		WHERE id = $1
	`
	out, err := scanPolicy(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find retention policy: %w", err)
	}
	return out, nil
}

func (s *Postgres) List(ctx context.Context, tenantID domain.TenantID) ([]*Policy, error) {
	const query = `
		SELECT id, tenant_id, data_type, retention_days, auto_delete, created_at, updated_at
		FROM retention_policies
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
		ORDER BY created_at
	`
	var arg any
	if !tenantID.IsNil() {
		arg = uuid.UUID(tenantID)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list retention policies: %w", err)
	}
	defer rows.Close()

	var out []*Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan retention policy: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retention policies: %w", err)
	}
	return out, nil
}

func (s *Postgres) Delete(ctx context.Context, id domain.PolicyID) error {
	const query = `DELETE FROM retention_policies WHERE id = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete retention policy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete retention policy: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteByTenant(ctx context.Context, tenantID domain.TenantID) error {
	const query = `DELETE FROM retention_policies WHERE tenant_id = $1`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(tenantID)); err != nil {
		return fmt.Errorf("delete tenant retention policies: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (*Policy, error) {
	var (
		p        Policy
		id       uuid.UUID
		tenantID uuid.UUID
		dataType string
	)
	if err := row.Scan(&id, &tenantID, &dataType, &p.RetentionDays, &p.AutoDelete, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.PolicyID(id)
	p.TenantID = domain.TenantID(tenantID)
	p.DataType = domain.DataType(dataType)
	return &p, nil
}
