// Package events defines domain events that represent significant business occurrences.
// Events are immutable facts about what happened in the past.
//
// SOLID Principles:
// - SRP: Each event type represents one business occurrence
// - OCP: New events can be added without modifying existing code
// - ISP: Event consumers only handle events they care about
//
// Pattern: Domain Events (Observer Pattern foundation)
// - Events are raised by entities when state changes
// - Handlers can react asynchronously
// - Enables loose coupling between domain modules
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// DomainEvent is the base interface for all domain events.
// All events must have an ID, timestamp, and type.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID // ID of the entity that raised this event
}

// BaseEvent provides common fields for all events.
// Embedded in specific event types to avoid duplication (DRY).
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
}

func newBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.eventID
}

func (e BaseEvent) EventType() string {
	return e.eventType
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

// Event Types (constants for type checking). These double as the outbox
// relay's NATS subjects, published under the "ledger." prefix (SPEC_FULL §3.4).
const (
	EventTypeUserCreated          = "user.created"
	EventTypeWalletCreated        = "wallet.created"
	EventTypeWalletCredited       = "wallet.credited"
	EventTypeWalletDebited        = "wallet.debited"
	EventTypeTransactionCreated   = "transaction.created"
	EventTypeTransactionCompleted = "transaction.completed"
	EventTypeTransactionFailed    = "transaction.failed"
)

// ===== User Events =====

// UserCreated is raised when a new user is onboarded.
type UserCreated struct {
	BaseEvent
	Email    string
	FullName string
}

func NewUserCreated(userID uuid.UUID, email, fullName string) *UserCreated {
	return &UserCreated{
		BaseEvent: newBaseEvent(EventTypeUserCreated, userID),
		Email:     email,
		FullName:  fullName,
	}
}

// ===== Wallet Events =====

// WalletCreated is raised when a new wallet is opened for a (user, asset type) pair.
type WalletCreated struct {
	BaseEvent
	UserID    uuid.UUID
	AssetType valueobjects.Currency
}

func NewWalletCreated(walletID, userID uuid.UUID, assetType valueobjects.Currency) *WalletCreated {
	return &WalletCreated{
		BaseEvent: newBaseEvent(EventTypeWalletCreated, walletID),
		UserID:    userID,
		AssetType: assetType,
	}
}

// WalletCredited is raised when funds are added to a wallet by the Ledger
// Writer. Consumers (balance caches, notifications) react to this instead
// of polling ledger_entries.
type WalletCredited struct {
	BaseEvent
	WalletID      uuid.UUID
	Amount        valueobjects.Money
	TransactionID uuid.UUID
	BalanceAfter  valueobjects.Money
}

func NewWalletCredited(
	walletID uuid.UUID,
	amount valueobjects.Money,
	transactionID uuid.UUID,
	balanceAfter valueobjects.Money,
) *WalletCredited {
	return &WalletCredited{
		BaseEvent:     newBaseEvent(EventTypeWalletCredited, walletID),
		WalletID:      walletID,
		Amount:        amount,
		TransactionID: transactionID,
		BalanceAfter:  balanceAfter,
	}
}

// WalletDebited is raised when funds are removed from a wallet.
type WalletDebited struct {
	BaseEvent
	WalletID      uuid.UUID
	Amount        valueobjects.Money
	TransactionID uuid.UUID
	BalanceAfter  valueobjects.Money
}

func NewWalletDebited(
	walletID uuid.UUID,
	amount valueobjects.Money,
	transactionID uuid.UUID,
	balanceAfter valueobjects.Money,
) *WalletDebited {
	return &WalletDebited{
		BaseEvent:     newBaseEvent(EventTypeWalletDebited, walletID),
		WalletID:      walletID,
		Amount:        amount,
		TransactionID: transactionID,
		BalanceAfter:  balanceAfter,
	}
}

// ===== Transaction Events =====

// TransactionCreated is raised when the Transaction Executor admits a new
// PENDING transaction past the Idempotency Gate.
type TransactionCreated struct {
	BaseEvent
	TransactionID       uuid.UUID
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	TransactionType     string
	Amount              valueobjects.Money
	IdempotencyKey      string
}

func NewTransactionCreated(
	transactionID, sourceWalletID, destinationWalletID uuid.UUID,
	transactionType string,
	amount valueobjects.Money,
	idempotencyKey string,
) *TransactionCreated {
	return &TransactionCreated{
		BaseEvent:           newBaseEvent(EventTypeTransactionCreated, transactionID),
		TransactionID:       transactionID,
		SourceWalletID:      sourceWalletID,
		DestinationWalletID: destinationWalletID,
		TransactionType:     transactionType,
		Amount:              amount,
		IdempotencyKey:      idempotencyKey,
	}
}

// TransactionCompleted is raised when a transaction commits successfully —
// both wallet balances updated and both ledger entries written in the same
// database transaction.
type TransactionCompleted struct {
	BaseEvent
	TransactionID       uuid.UUID
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	TransactionType     string
	Amount              valueobjects.Money
	CompletedAt         time.Time
}

func NewTransactionCompleted(
	transactionID, sourceWalletID, destinationWalletID uuid.UUID,
	transactionType string,
	amount valueobjects.Money,
) *TransactionCompleted {
	return &TransactionCompleted{
		BaseEvent:           newBaseEvent(EventTypeTransactionCompleted, transactionID),
		TransactionID:       transactionID,
		SourceWalletID:      sourceWalletID,
		DestinationWalletID: destinationWalletID,
		TransactionType:     transactionType,
		Amount:              amount,
		CompletedAt:         time.Now(),
	}
}

// TransactionFailed describes a transaction marked FAILED. The Transaction
// Executor does not raise it: a failed movement rolls back and leaves no
// transaction row.
type TransactionFailed struct {
	BaseEvent
	TransactionID       uuid.UUID
	SourceWalletID      uuid.UUID
	DestinationWalletID uuid.UUID
	TransactionType     string
	Amount              valueobjects.Money
	FailureReason       string
}

func NewTransactionFailed(
	transactionID, sourceWalletID, destinationWalletID uuid.UUID,
	transactionType string,
	amount valueobjects.Money,
	failureReason string,
) *TransactionFailed {
	return &TransactionFailed{
		BaseEvent:           newBaseEvent(EventTypeTransactionFailed, transactionID),
		TransactionID:       transactionID,
		SourceWalletID:      sourceWalletID,
		DestinationWalletID: destinationWalletID,
		TransactionType:     transactionType,
		Amount:              amount,
		FailureReason:       failureReason,
	}
}

// EventStore is a simple in-memory collector for events raised during a
// single use case invocation, flushed to the outbox in the same database
// transaction as the state change that produced them.
//
// Pattern: Event Sourcing foundation
// - Collect events during entity operations
// - Publish them atomically with state changes
// - Enables eventual consistency and event-driven architecture
type EventStore struct {
	events []DomainEvent
}

// NewEventStore creates a new event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make([]DomainEvent, 0),
	}
}

// Add appends an event to the store.
func (s *EventStore) Add(event DomainEvent) {
	s.events = append(s.events, event)
}

// GetAll returns all collected events.
func (s *EventStore) GetAll() []DomainEvent {
	return s.events
}

// Clear removes all events from the store.
func (s *EventStore) Clear() {
	s.events = make([]DomainEvent, 0)
}

// Count returns the number of events in the store.
func (s *EventStore) Count() int {
	return len(s.events)
}
