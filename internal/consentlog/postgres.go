package consentlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"datagov/pkg/domain"
	txcontext "datagov/pkg/platform/tx"
)

// Postgres implements Store against the consent_log table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Append(ctx context.Context, entry *Entry) error {
	const query = `
		INSERT INTO consent_log (id, tenant_id, user_id, consent_type, granted, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var userID *uuid.UUID
	if !entry.UserID.IsNil() {
		u := uuid.UUID(entry.UserID)
		userID = &u
	}
	if _, err := s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		uuid.UUID(entry.TenantID),
		userID,
		entry.ConsentType.String(),
		entry.Granted,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("append consent entry: %w", err)
	}
	return nil
}

func (s *Postgres) ListByTenant(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) ([]*Entry, error) {
	const query = `
		SELECT id, tenant_id, user_id, consent_type, granted, ip_address, user_agent, created_at
		FROM consent_log
		WHERE tenant_id = $1 AND ($2::uuid IS NULL OR user_id = $2)
		ORDER BY created_at DESC
	`
	var userArg any
	if !userID.IsNil() {
		userArg = uuid.UUID(userID)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(tenantID), userArg)
	if err != nil {
		return nil, fmt.Errorf("list consent entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Postgres) ListByUser(ctx context.Context, userID domain.UserID) ([]*Entry, error) {
	const query = `
		SELECT id, tenant_id, user_id, consent_type, granted, ip_address, user_agent, created_at
		FROM consent_log
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list user consent entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Postgres) DeleteByUser(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) error {
	const query = `
		DELETE FROM consent_log
		WHERE user_id = $1 AND ($2::uuid IS NULL OR tenant_id = $2)
	`
	var tenantArg any
	if !tenantID.IsNil() {
		tenantArg = uuid.UUID(tenantID)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(userID), tenantArg); err != nil {
		return fmt.Errorf("delete user consent entries: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var out []*Entry
	for rows.Next() {
		var (
			e           Entry
			id          uuid.UUID
			tenantID    uuid.UUID
			userID      *uuid.UUID
			consentType string
		)
		if err := rows.Scan(&id, &tenantID, &userID, &consentType, &e.Granted, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consent entry: %w", err)
		}
		e.ID = id
		e.TenantID = domain.TenantID(tenantID)
		if userID != nil {
			e.UserID = domain.UserID(*userID)
		}
		e.ConsentType = domain.ConsentType(consentType)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent entries: %w", err)
	}
	return out, nil
}
