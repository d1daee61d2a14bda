package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink receives drained outbox payloads. KafkaPublisher is the production
// implementation; tests use an in-process recorder.
type Sink interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// OutboxWorker drains unpublished outbox rows to the sink. Rows are claimed
// with FOR UPDATE SKIP LOCKED so multiple workers never double-publish, and
// marked published only after the sink acknowledges. A row that fails to
// publish stays unclaimed and is retried on the next tick.
type OutboxWorker struct {
	db       *sql.DB
	sink     Sink
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

func NewOutboxWorker(db *sql.DB, sink Sink, logger *slog.Logger) *OutboxWorker {
	return &OutboxWorker{
		db:       db,
		sink:     sink,
		logger:   logger,
		interval: 5 * time.Second,
		batch:    100,
	}
}

// Run drains on a fixed interval until the context ends.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.DrainOnce(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// DrainOnce publishes one batch of pending outbox rows.
func (w *OutboxWorker) DrainOnce(ctx context.Context) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin outbox drain: %w", err)
	}
	defer tx.Rollback()

	const claim = `
		SELECT id, aggregate_id, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.QueryContext(ctx, claim, w.batch)
	if err != nil {
		return fmt.Errorf("claim outbox rows: %w", err)
	}

	type entry struct {
		id          uuid.UUID
		aggregateID string
		payload     []byte
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.aggregateID, &e.payload); err != nil {
			rows.Close()
			return fmt.Errorf("scan outbox row: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	const mark = `UPDATE outbox SET published_at = $2 WHERE id = $1`
	for _, e := range entries {
		if err := w.sink.Publish(ctx, e.aggregateID, e.payload); err != nil {
			return fmt.Errorf("publish outbox entry %s: %w", e.id, err)
		}
		if _, err := tx.ExecContext(ctx, mark, e.id, time.Now()); err != nil {
			return fmt.Errorf("mark outbox entry %s: %w", e.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit outbox drain: %w", err)
	}
	w.logger.DebugContext(ctx, "outbox batch published", "count", len(entries))
	return nil
}
