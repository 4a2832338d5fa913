package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"doctorcar-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OutboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// EnqueueTx persists a side effect in the same transaction as the primary
// write. The payload must be JSON-serializable.
func (r *OutboxRepository) EnqueueTx(tx *sqlx.Tx, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	event := models.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
		Status:    models.OutboxPending,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, attempts, created_at)
		VALUES (:id, :event_type, :payload, :status, :attempts, :created_at)
	`

	if _, err := tx.NamedExec(query, event); err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	return nil
}

// Enqueue persists a side effect outside any caller transaction
func (r *OutboxRepository) Enqueue(ctx context.Context, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	event := models.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   raw,
		Status:    models.OutboxPending,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, attempts, created_at)
		VALUES (:id, :event_type, :payload, :status, :attempts, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	return nil
}

// GetPending retrieves undispatched events that still have attempts left,
// oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	query := `
		SELECT id, event_type, payload, status, attempts, last_error, created_at, dispatched_at
		FROM outbox_events
		WHERE status = $1 AND attempts < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &events, query, models.OutboxPending, models.OutboxMaxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending outbox events: %w", err)
	}

	return events, nil
}

// MarkDispatched records a successful dispatch
func (r *OutboxRepository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = $1, dispatched_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, models.OutboxDispatched, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event dispatched: %w", err)
	}

	return nil
}

// MarkFailed increments the attempt counter and records the dispatch error.
// Events that exhaust their attempts are parked as failed.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, dispatchErr error) error {
	msg := dispatchErr.Error()
	query := `
		UPDATE outbox_events
		SET attempts = attempts + 1,
		    last_error = $1,
		    status = CASE WHEN attempts + 1 >= $2 THEN $3 ELSE status END
		WHERE id = $4
	`

	_, err := r.db.ExecContext(ctx, query, msg, models.OutboxMaxAttempts, models.OutboxFailed, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event failed: %w", err)
	}

	return nil
}
