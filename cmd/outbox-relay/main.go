// Package main - Outbox relay: the only component that talks to NATS.
//
// Polls the outbox table for PENDING rows (FOR UPDATE SKIP LOCKED, so
// several replicas of this command can run against the same database
// without double-publishing), publishes each one to a NATS subject derived
// from its event type, and marks it PUBLISHED or FAILED. This closes the
// Transactional Outbox pattern (SPEC_FULL §3.4): a request handler never
// talks to NATS synchronously, it only ever writes a row in the same
// database transaction as the business operation.
//
// Usage:
//
//	go run cmd/outbox-relay/main.go
//	go run cmd/outbox-relay/main.go -env-only
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/config"
	"github.com/vinayak20130/ledgervault/internal/container"
	"github.com/vinayak20130/ledgervault/internal/infrastructure/messaging"
)

func main() {
	configPath := flag.String("config", "./configs", "Path to config directory")
	configName := flag.String("config-name", "config", "Config file name (without extension)")
	envOnly := flag.Bool("env-only", false, "Load config only from environment variables")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *envOnly {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath, *configName)
	}
	if err != nil {
		log.Printf("warning: failed to load config: %v, using development defaults", err)
		cfg = config.Development()
	}

	c := container.New(cfg)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()
	if err := c.InitializeForTooling(initCtx); err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	publisher, err := messaging.NewNATSPublisher(&cfg.NATS)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	logger := c.Logger()
	logger.Info("outbox relay starting",
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("subject_prefix", cfg.NATS.SubjectPrefix),
		slog.Duration("interval", cfg.NATS.RelayInterval),
		slog.Int("batch_size", cfg.NATS.RelayBatchSize),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.NATS.RelayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox relay shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = c.Shutdown(shutdownCtx)
			shutdownCancel()
			return
		case <-ticker.C:
			relayBatch(ctx, c, publisher, cfg.NATS.RelayBatchSize, logger)
		}
	}
}

// relayBatch publishes up to batchSize outbox rows in one pass. A failure
// publishing one event is logged and marked on the row — it never aborts
// the rest of the batch, since a NATS hiccup on one event says nothing
// about the others.
func relayBatch(ctx context.Context, c *container.Container, publisher *messaging.NATSPublisher, batchSize int, logger *slog.Logger) {
	outbox := c.OutboxRepository()

	pending, err := outbox.FindUnpublished(ctx, batchSize)
	if err != nil {
		logger.Error("failed to fetch unpublished events", slog.String("error", err.Error()))
		return
	}
	if len(pending) == 0 {
		return
	}

	for _, event := range pending {
		payloader, ok := event.(ports.Payloader)
		if !ok {
			logger.Error("event has no payload, marking failed",
				slog.String("event_id", event.EventID().String()),
				slog.String("event_type", event.EventType()),
			)
			_ = outbox.MarkFailed(ctx, event.EventID().String(), "event does not expose a payload")
			continue
		}

		subject := publisher.Subject(event.EventType())
		if err := publisher.Publish(subject, payloader.Payload()); err != nil {
			logger.Error("failed to publish event",
				slog.String("event_id", event.EventID().String()),
				slog.String("event_type", event.EventType()),
				slog.String("error", err.Error()),
			)
			_ = outbox.MarkFailed(ctx, event.EventID().String(), err.Error())
			continue
		}

		if err := outbox.MarkPublished(ctx, event.EventID().String()); err != nil {
			logger.Error("failed to mark event published",
				slog.String("event_id", event.EventID().String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		logger.Info("event published",
			slog.String("event_id", event.EventID().String()),
			slog.String("subject", subject),
		)
	}
}
