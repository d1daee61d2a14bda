package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"datagov/pkg/domain"
	txcontext "datagov/pkg/platform/tx"
)

// Postgres implements Store using the transactional outbox pattern. Append
// writes the event to audit_events for querying and to the outbox table in
// the same statement batch; the outbox worker ships outbox rows to Kafka.
// Running inside the caller's transaction keeps the audit write atomic with
// the domain change it describes.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure published to Kafka. Field names match
// audit.Event for deserialization by downstream consumers.
type outboxPayload struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	TenantID  string `json:"TenantID,omitempty"`
	UserID    string `json:"UserID,omitempty"`
	Subject   string `json:"Subject"`
	Action    string `json:"Action"`
	Reason    string `json:"Reason,omitempty"`
	RequestID string `json:"RequestID,omitempty"`
	ActorID   string `json:"ActorID,omitempty"`
}

func (s *Postgres) Append(ctx context.Context, event Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(event.Category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
	}
	if !event.TenantID.IsNil() {
		payload.TenantID = uuid.UUID(event.TenantID).String()
	}
	if !event.UserID.IsNil() {
		payload.UserID = uuid.UUID(event.UserID).String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.UserID.IsNil() {
		aggregateType = "user"
		aggregateID = uuid.UUID(event.UserID).String()
	}

	const insertEvent = `
		INSERT INTO audit_events (id, category, timestamp, tenant_id, user_id, subject, action, reason, request_id, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	var tenantID, userID *uuid.UUID
	if !event.TenantID.IsNil() {
		t := uuid.UUID(event.TenantID)
		tenantID = &t
	}
	if !event.UserID.IsNil() {
		u := uuid.UUID(event.UserID)
		userID = &u
	}
	if _, err := s.execer(ctx).ExecContext(ctx, insertEvent,
		eventID, string(event.Category), event.Timestamp, tenantID, userID,
		event.Subject, event.Action, event.Reason, event.RequestID, event.ActorID,
	); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	const insertOutbox = `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, insertOutbox,
		uuid.New(), aggregateType, aggregateID, event.Action, payloadBytes, time.Now(),
	); err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error) {
	const query = `
		SELECT category, timestamp, tenant_id, user_id, subject, action, reason, request_id, actor_id
		FROM audit_events
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Postgres) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	const query = `
		SELECT category, timestamp, tenant_id, user_id, subject, action, reason, request_id, actor_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			category string
			event    Event
			tenantID *uuid.UUID
			userID   *uuid.UUID
		)
		if err := rows.Scan(
			&category, &event.Timestamp, &tenantID, &userID,
			&event.Subject, &event.Action, &event.Reason, &event.RequestID, &event.ActorID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = EventCategory(category)
		if tenantID != nil {
			event.TenantID = domain.TenantID(*tenantID)
		}
		if userID != nil {
			event.UserID = domain.UserID(*userID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
