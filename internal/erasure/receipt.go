package erasure

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"datagov/pkg/domain"
	txcontext "datagov/pkg/platform/tx"
)

// Operation names the two erasure modes.
type Operation string

const (
	OperationAnonymize Operation = "anonymize"
	OperationDelete    Operation = "delete"
)

// StepResult records one completed (or failed) erasure step. Erasure is not
// transactional across entity types; the step list is what makes a partial
// run diagnosable and resumable.
type StepResult struct {
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completedAt"`
	Error       string    `json:"error,omitempty"`
}

// Receipt is the durable record of one erasure run.
type Receipt struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    domain.TenantID `json:"tenantId"`
	UserID      domain.UserID   `json:"userId"`
	Operation   Operation       `json:"operation"`
	Reason      string          `json:"reason"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt time.Time       `json:"completedAt"`
	Steps       []StepResult    `json:"steps"`
}

// Succeeded reports whether every recorded step completed cleanly.
func (r *Receipt) Succeeded() bool {
	for _, s := range r.Steps {
		if s.Error != "" {
			return false
		}
	}
	return true
}

// ReceiptStore persists erasure receipts.
type ReceiptStore interface {
	Save(ctx context.Context, receipt *Receipt) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]*Receipt, error)
}

// InMemoryReceipts keeps receipts for tests and local runs.
type InMemoryReceipts struct {
	mu       sync.RWMutex
	receipts []Receipt
}

func NewInMemoryReceipts() *InMemoryReceipts {
	return &InMemoryReceipts{}
}

func (s *InMemoryReceipts) Save(_ context.Context, receipt *Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.receipts {
		if s.receipts[i].ID == receipt.ID {
			s.receipts[i] = *receipt
			return nil
		}
	}
	s.receipts = append(s.receipts, *receipt)
	return nil
}

func (s *InMemoryReceipts) ListByUser(_ context.Context, userID domain.UserID) ([]*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Receipt
	for i := len(s.receipts) - 1; i >= 0; i-- {
		if s.receipts[i].UserID == userID {
			cp := s.receipts[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// PostgresReceipts implements ReceiptStore; steps are stored as a JSON
// column, rewritten whole on every save and only ever read back whole.
type PostgresReceipts struct {
	db *sql.DB
}

func NewPostgresReceipts(db *sql.DB) *PostgresReceipts {
	return &PostgresReceipts{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresReceipts) execer(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresReceipts) Save(ctx context.Context, receipt *Receipt) error {
	steps, err := json.Marshal(receipt.Steps)
	if err != nil {
		return fmt.Errorf("marshal receipt steps: %w", err)
	}
	const query = `
		INSERT INTO erasure_receipts (id, tenant_id, user_id, operation, reason, started_at, completed_at, steps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET completed_at = EXCLUDED.completed_at, steps = EXCLUDED.steps
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query,
		receipt.ID,
		uuid.UUID(receipt.TenantID),
		uuid.UUID(receipt.UserID),
		string(receipt.Operation),
		receipt.Reason,
		receipt.StartedAt,
		receipt.CompletedAt,
		steps,
	); err != nil {
		return fmt.Errorf("save erasure receipt: %w", err)
	}
	return nil
}

func (s *PostgresReceipts) ListByUser(ctx context.Context, userID domain.UserID) ([]*Receipt, error) {
	const query = `
		SELECT id, tenant_id, user_id, operation, reason, started_at, completed_at, steps
		FROM erasure_receipts
		WHERE user_id = $1
		ORDER BY started_at DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list erasure receipts: %w", err)
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		var (
			r         Receipt
			tenantID  uuid.UUID
			uID       uuid.UUID
			operation string
			steps     []byte
		)
		if err := rows.Scan(&r.ID, &tenantID, &uID, &operation, &r.Reason, &r.StartedAt, &r.CompletedAt, &steps); err != nil {
			return nil, fmt.Errorf("scan erasure receipt: %w", err)
		}
		r.TenantID = domain.TenantID(tenantID)
		r.UserID = domain.UserID(uID)
		r.Operation = Operation(operation)
		if err := json.Unmarshal(steps, &r.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal receipt steps: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate erasure receipts: %w", err)
	}
	return out, nil
}
