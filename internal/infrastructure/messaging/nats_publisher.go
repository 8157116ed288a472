// Package messaging - NATS adapter for the outbox relay (SPEC_FULL §3.4).
//
// This is the only place in the codebase that talks to NATS directly: the
// request path only ever writes to the outbox table (see
// postgres.OutboxRepository), and cmd/outbox-relay is the sole consumer of
// NATSPublisher.
package messaging

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vinayak20130/ledgervault/internal/config"
)

// NATSPublisher publishes raw event payloads to subjects derived from an
// event's dotted type (e.g. "wallet.credited" under subject prefix
// "ledgervault.events" becomes "ledgervault.events.wallet.credited").
type NATSPublisher struct {
	conn           *nats.Conn
	subjectPrefix  string
	publishTimeout time.Duration
}

// NewNATSPublisher dials NATS using the given configuration.
func NewNATSPublisher(cfg *config.NATSConfig) (*NATSPublisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(cfg.ConnectTimeout),
		nats.Name("ledgervault-outbox-relay"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.URL, err)
	}

	return &NATSPublisher{
		conn:           conn,
		subjectPrefix:  cfg.SubjectPrefix,
		publishTimeout: cfg.PublishTimeout,
	}, nil
}

// Subject derives the NATS subject an event type publishes under.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.subjectPrefix == "" {
		return eventType
	}
	return p.subjectPrefix + "." + eventType
}

// Publish sends a raw payload to the given subject and blocks until the
// broker acknowledges the flush, surfacing any connection error to the
// caller so it can mark the outbox row failed rather than lost.
func (p *NATSPublisher) Publish(subject string, payload []byte) error {
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return p.conn.FlushTimeout(p.publishTimeout)
}

// Close drains in-flight publishes and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
