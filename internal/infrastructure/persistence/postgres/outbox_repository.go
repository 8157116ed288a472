// Package postgres - OutboxRepository implements the Transactional Outbox
// pattern (SPEC_FULL §3.4):
//
//  1. the business operation's database transaction also inserts the event
//     row into the outbox table
//  2. a separate poller (cmd/outbox-relay) reads unpublished rows with
//     FOR UPDATE SKIP LOCKED and publishes them to NATS
//  3. the poller marks each row published once the broker acknowledges it
//
// This gives at-least-once delivery without ever publishing an event whose
// transaction rolled back.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/events"
)

var _ ports.OutboxRepository = (*OutboxRepository)(nil)
var _ ports.EventPublisher = (*OutboxRepository)(nil)

// OutboxRepository implements ports.OutboxRepository and doubles as a
// ports.EventPublisher: publishing an event from inside a request handler
// just means writing it to the outbox table in the same transaction as the
// business operation, never actually talking to NATS synchronously.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Save writes an event to the outbox. Must run in the same database
// transaction as the business operation that raised it.
func (r *OutboxRepository) Save(ctx context.Context, event events.DomainEvent) error {
	q := r.getQuerier(ctx)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	aggregateType := aggregateTypeOf(event.EventType())

	query := `
		INSERT INTO outbox (
			id, aggregate_type, aggregate_id, event_type, event_version,
			payload, status, partition_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		event.EventID(),
		aggregateType,
		event.AggregateID(),
		event.EventType(),
		1,
		payload,
		"PENDING",
		event.AggregateID().String(),
		event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("save event to outbox: %w", err)
	}

	return nil
}

// FindUnpublished returns events not yet published, skipping rows another
// poller instance already has locked — safe to run several relay replicas.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]events.DomainEvent, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("find unpublished events: %w", err)
	}
	defer rows.Close()

	var result []events.DomainEvent
	for rows.Next() {
		var (
			id, aggregateID uuid.UUID
			aggregateType   string
			eventType       string
			payload         []byte
			createdAt       time.Time
		)

		if err := rows.Scan(&id, &aggregateType, &aggregateID, &eventType, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}

		result = append(result, &genericEvent{
			id:          id,
			eventType:   eventType,
			occurredAt:  createdAt,
			aggregateID: aggregateID,
			payload:     payload,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}

	return result, nil
}

// Publish is an EventPublisher method — in the outbox pattern it's just
// Save: there is no separate publish step on the request path, only a
// durable write the relay will pick up.
func (r *OutboxRepository) Publish(ctx context.Context, event events.DomainEvent) error {
	return r.Save(ctx, event)
}

// PublishBatch saves every event in the batch inside the caller's
// transaction; if one insert fails, the whole batch fails.
func (r *OutboxRepository) PublishBatch(ctx context.Context, eventsList []events.DomainEvent) error {
	for _, event := range eventsList {
		if err := r.Save(ctx, event); err != nil {
			return fmt.Errorf("publish event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// MarkPublished marks an event as delivered; the relay won't retry it.
func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'PUBLISHED', published_at = $2
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := q.Exec(ctx, query, eventUUID, time.Now())
	if err != nil {
		return fmt.Errorf("mark event published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("event not found or already published")
	}

	return nil
}

// MarkFailed records a delivery failure: the row becomes FAILED and its
// retry_count is incremented.
func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID string, reason string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'FAILED', failed_at = $2, last_error = $3, retry_count = retry_count + 1
		WHERE id = $1
	`

	_, err = q.Exec(ctx, query, eventUUID, time.Now(), reason)
	if err != nil {
		return fmt.Errorf("mark event failed: %w", err)
	}

	return nil
}

// MarkForRetry returns a FAILED event to PENDING, up to 5 attempts.
func (r *OutboxRepository) MarkForRetry(ctx context.Context, eventID string) error {
	q := r.getQuerier(ctx)

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	query := `
		UPDATE outbox
		SET status = 'PENDING', failed_at = NULL, last_error = NULL
		WHERE id = $1 AND status = 'FAILED' AND retry_count < 5
	`

	result, err := q.Exec(ctx, query, eventUUID)
	if err != nil {
		return fmt.Errorf("mark event for retry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("event not found, not failed, or max retries exceeded")
	}

	return nil
}

// CleanupPublished deletes published events older than the given age —
// maintenance, run periodically outside the request/relay path.
func (r *OutboxRepository) CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error) {
	q := r.getQuerier(ctx)

	cutoff := time.Now().Add(-olderThan)

	query := `DELETE FROM outbox WHERE status = 'PUBLISHED' AND published_at < $1`

	result, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup published events: %w", err)
	}

	return result.RowsAffected(), nil
}

// genericEvent wraps an outbox row read back as a DomainEvent — the relay
// only needs the envelope fields and the raw payload to publish to NATS,
// never the concrete Go type that raised the event.
type genericEvent struct {
	id          uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
	payload     []byte
}

func (e *genericEvent) EventID() uuid.UUID     { return e.id }
func (e *genericEvent) EventType() string      { return e.eventType }
func (e *genericEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e *genericEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e *genericEvent) Payload() []byte        { return e.payload }

// aggregateTypeOf derives the outbox aggregate_type column from an event's
// dotted type (e.g. "wallet.credited" -> "Wallet").
func aggregateTypeOf(eventType string) string {
	switch {
	case len(eventType) > 4 && eventType[:4] == "user":
		return "User"
	case len(eventType) > 6 && eventType[:6] == "wallet":
		return "Wallet"
	case len(eventType) > 11 && eventType[:11] == "transaction":
		return "Transaction"
	default:
		return "Unknown"
	}
}
