package directory

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

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execer(ctx context.Context, db *sql.DB) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// PostgresAccounts persists user accounts.
type PostgresAccounts struct {
	db *sql.DB
}

func NewPostgresAccounts(db *sql.DB) *PostgresAccounts {
	return &PostgresAccounts{db: db}
}

func (s *PostgresAccounts) Save(ctx context.Context, a *Account) error {
	const query = `
		INSERT INTO accounts (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(a.ID), a.Name, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *PostgresAccounts) FindByID(ctx context.Context, id domain.UserID) (*Account, error) {
	const query = `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM accounts WHERE id = $1
	`
	var (
		a   Account
		uid uuid.UUID
	)
	err := execer(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&uid, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.ID = domain.UserID(uid)
	return &a, nil
}

func (s *PostgresAccounts) Update(ctx context.Context, a *Account) error {
	const query = `
		UPDATE accounts SET name = $2, email = $3, password_hash = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := execer(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(a.ID), a.Name, a.Email, a.PasswordHash, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresAccounts) Delete(ctx context.Context, id domain.UserID) error {
	res, err := execer(ctx, s.db).ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

// PostgresMemberships persists tenant memberships.
type PostgresMemberships struct {
	db *sql.DB
}

func NewPostgresMemberships(db *sql.DB) *PostgresMemberships {
	return &PostgresMemberships{db: db}
}

func (s *PostgresMemberships) Save(ctx context.Context, m *Membership) error {
	const query = `
		INSERT INTO memberships (tenant_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, user_id) DO UPDATE SET role = $3
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(m.TenantID), uuid.UUID(m.UserID), m.Role, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("save membership: %w", err)
	}
	return nil
}

func (s *PostgresMemberships) Find(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) (*Membership, error) {
	const query = `
		SELECT tenant_id, user_id, role, created_at
		FROM memberships WHERE tenant_id = $1 AND user_id = $2
	`
	var (
		m        Membership
		tid, uid uuid.UUID
	)
	err := execer(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(userID)).
		Scan(&tid, &uid, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find membership: %w", err)
	}
	m.TenantID = domain.TenantID(tid)
	m.UserID = domain.UserID(uid)
	return &m, nil
}

func (s *PostgresMemberships) ListByUser(ctx context.Context, userID domain.UserID) ([]*Membership, error) {
	const query = `
		SELECT tenant_id, user_id, role, created_at
		FROM memberships WHERE user_id = $1
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*Membership
	for rows.Next() {
		var (
			m        Membership
			tid, uid uuid.UUID
		)
		if err := rows.Scan(&tid, &uid, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.TenantID = domain.TenantID(tid)
		m.UserID = domain.UserID(uid)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *PostgresMemberships) Delete(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) error {
	res, err := execer(ctx, s.db).ExecContext(ctx,
		`DELETE FROM memberships WHERE tenant_id = $1 AND user_id = $2`,
		uuid.UUID(tenantID), uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return requireRow(res)
}

// PostgresIdentities persists linked external identities.
type PostgresIdentities struct {
	db *sql.DB
}

func NewPostgresIdentities(db *sql.DB) *PostgresIdentities {
	return &PostgresIdentities{db: db}
}

func (s *PostgresIdentities) Save(ctx context.Context, identity *ExternalIdentity) error {
	const query = `
		INSERT INTO external_identities (id, user_id, provider, subject, email, name, access_token, refresh_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		identity.ID, uuid.UUID(identity.UserID), identity.Provider, identity.Subject,
		identity.Email, identity.Name, identity.AccessToken, identity.RefreshToken, identity.CreatedAt)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *PostgresIdentities) ListByUser(ctx context.Context, userID domain.UserID) ([]*ExternalIdentity, error) {
	const query = `
		SELECT id, user_id, provider, subject, email, name, access_token, refresh_token, created_at
		FROM external_identities WHERE user_id = $1
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var out []*ExternalIdentity
	for rows.Next() {
		var (
			id  ExternalIdentity
			uid uuid.UUID
		)
		if err := rows.Scan(&id.ID, &uid, &id.Provider, &id.Subject, &id.Email,
			&id.Name, &id.AccessToken, &id.RefreshToken, &id.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		id.UserID = domain.UserID(uid)
		out = append(out, &id)
	}
	return out, rows.Err()
}

func (s *PostgresIdentities) Update(ctx context.Context, identity *ExternalIdentity) error {
	const query = `
		UPDATE external_identities
		SET email = $2, name = $3, access_token = $4, refresh_token = $5
		WHERE id = $1
	`
	res, err := execer(ctx, s.db).ExecContext(ctx, query,
		identity.ID, identity.Email, identity.Name, identity.AccessToken, identity.RefreshToken)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresIdentities) DeleteByUser(ctx context.Context, userID domain.UserID) error {
	// Deleting zero rows is fine: a user may have no linked identities.
	_, err := execer(ctx, s.db).ExecContext(ctx,
		`DELETE FROM external_identities WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete identities: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
