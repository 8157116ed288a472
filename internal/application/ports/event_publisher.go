// Package ports - EventPublisher publishes domain events.
//
// SOLID Principles:
// - DIP: the application layer doesn't know about NATS/Kafka details
// - OCP: the broker can be swapped without touching use cases
// - ISP: a minimal two-method interface
//
// Pattern: Publisher/Subscriber (infrastructure-level Observer)
package ports

import (
	"context"

	"github.com/vinayak20130/ledgervault/internal/domain/events"
)

// EventPublisher defines the contract for publishing domain events.
//
// Implementations:
// - nats.go publisher (production, see SPEC_FULL §3.4)
// - in-memory (tests)
// - database outbox + poller, for delivery guarantees
type EventPublisher interface {
	// Publish publishes a single event.
	//
	// At-least-once delivery — consumers on the receiving end of the
	// outbox relay must be idempotent.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch publishes several events in one call. If one event in
	// the batch fails, the whole batch fails (batch-level atomicity).
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventSubscriber defines the contract for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type (e.g. "wallet.credited").
	Subscribe(eventType string, handler EventHandler) error

	// Start begins consuming events (blocking call, run in its own goroutine).
	Start(ctx context.Context) error

	// Stop halts consumption.
	Stop(ctx context.Context) error
}

// EventHandler processes one event.
type EventHandler func(ctx context.Context, event events.DomainEvent) error

// OutboxRepository is the Transactional Outbox port.
//
// The outbox solves "how do we guarantee an event publishes if and only if
// its database transaction committed?":
//  1. the business operation's database transaction also inserts the event
//     into the outbox table
//  2. a separate poller (cmd/outbox-relay) reads unpublished rows with
//     FOR UPDATE SKIP LOCKED and publishes them to NATS
//  3. the poller marks each row published once the broker acknowledges it
//
// This gives at-least-once delivery without ever publishing an event whose
// transaction rolled back.
type OutboxRepository interface {
	// Save writes an event to the outbox. Must run in the same database
	// transaction as the business operation that raised it.
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished returns events not yet published, for the poller to pick up.
	FindUnpublished(ctx context.Context, limit int) ([]events.DomainEvent, error)

	// MarkPublished marks an event as delivered; the poller won't retry it.
	MarkPublished(ctx context.Context, eventID string) error

	// MarkFailed records a failed delivery attempt and marks the event FAILED.
	MarkFailed(ctx context.Context, eventID string, reason string) error
}

// Payloader is implemented by the events FindUnpublished returns — the
// outbox row's raw JSON payload, read back as stored rather than
// reconstructed into its concrete event type. cmd/outbox-relay uses this to
// publish the exact bytes it received without caring which event type they
// came from.
type Payloader interface {
	Payload() []byte
}
