package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"datagov/pkg/domain"
	txcontext "datagov/pkg/platform/tx"
)

// Postgres implements Store against the relational schema. The tenant filter
// is optional (nil tenant ID means all tenants) so the retention engine can
// run globally or scoped.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// tenantArg converts a possibly-nil tenant ID into a NULLable query argument.
func tenantArg(tenantID domain.TenantID) any {
	if tenantID.IsNil() {
		return nil
	}
	return uuid.UUID(tenantID)
}

func (s *Postgres) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Postgres) CountConversationsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM conversations
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND last_message_at < $2
	`
	n, err := s.count(ctx, query, tenantArg(tenantID), cutoff)
	if err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return n, nil
}

func (s *Postgres) DeleteConversationsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	const query = `
		DELETE FROM conversations
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND last_message_at < $2
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, tenantArg(tenantID), cutoff); err != nil {
		return fmt.Errorf("delete conversations: %w", err)
	}
	return nil
}

func (s *Postgres) CountMessagesBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM messages
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND created_at < $2
	`
	n, err := s.count(ctx, query, tenantArg(tenantID), cutoff)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (s *Postgres) DeleteMessagesBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	const query = `
		DELETE FROM messages
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND created_at < $2
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, tenantArg(tenantID), cutoff); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}

func terminalStatuses() pq.StringArray {
	out := make(pq.StringArray, 0, len(TerminalAppointmentStatuses))
	for _, s := range TerminalAppointmentStatuses {
		out = append(out, string(s))
	}
	return out
}

func (s *Postgres) CountTerminalAppointmentsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM appointments
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
			AND start_time < $2
			AND status = ANY($3)
	`
	n, err := s.count(ctx, query, tenantArg(tenantID), cutoff, terminalStatuses())
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

func (s *Postgres) DeleteTerminalAppointmentsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	const query = `
		DELETE FROM appointments
		WHERE ($1::uuid IS NULL OR tenant_id = $1)
			AND start_time < $2
			AND status = ANY($3)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, tenantArg(tenantID), cutoff, terminalStatuses()); err != nil {
		return fmt.Errorf("delete appointments: %w", err)
	}
	return nil
}

func (s *Postgres) CountLeadsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*) FROM leads
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND created_at < $2
	`
	n, err := s.count(ctx, query, tenantArg(tenantID), cutoff)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func (s *Postgres) DeleteLeadsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	const query = `
		DELETE FROM leads
		WHERE ($1::uuid IS NULL OR tenant_id = $1) AND created_at < $2
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, tenantArg(tenantID), cutoff); err != nil {
		return fmt.Errorf("delete leads: %w", err)
	}
	return nil
}

func (s *Postgres) ClearConversationParticipants(ctx context.Context, tenantID domain.TenantID) error {
	const query = `
		UPDATE conversations SET participant_name = '', participant_email = ''
		WHERE tenant_id = $1
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(tenantID)); err != nil {
		return fmt.Errorf("clear conversation participants: %w", err)
	}
	return nil
}

func (s *Postgres) ClearAppointmentParticipants(ctx context.Context, tenantID domain.TenantID) error {
	const query = `
		UPDATE appointments SET participant_name = ''
		WHERE tenant_id = $1
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(tenantID)); err != nil {
		return fmt.Errorf("clear appointment participants: %w", err)
	}
	return nil
}
