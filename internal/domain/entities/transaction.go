// Package entities - MonetaryTransaction is the record of a single value
// movement between two wallets (spec §3). It is the aggregate the
// Transaction Executor creates, advances through its lifecycle, and finally
// seals alongside the ledger entries it produced.
package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// TransactionType identifies the business operation a transaction performs.
// Unlike the teacher's open-ended deposit/withdraw/transfer/fee taxonomy,
// every movement here is one of exactly three operations (spec §2).
type TransactionType string

const (
	TransactionTypeTopUp    TransactionType = "TOP_UP"
	TransactionTypeBonus    TransactionType = "BONUS"
	TransactionTypePurchase TransactionType = "PURCHASE"
)

// IsValid checks if the transaction type is one of the known operations.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTopUp, TransactionTypeBonus, TransactionTypePurchase:
		return true
	default:
		return false
	}
}

// TransactionStatus represents the current state of a transaction.
// There is no PROCESSING state: the executor holds both wallet locks for
// the whole of a single database transaction, so a row is never observed
// mid-flight by another request — it is PENDING until the executor commits
// or fails it, never anything in between (spec §4.2).
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// IsValid checks if the transaction status is valid.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status is terminal (no further transitions).
func (s TransactionStatus) IsFinal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// MonetaryTransaction represents one value movement between a source and a
// destination wallet. Both wallet references are always populated — a
// TOP_UP or BONUS sources from the treasury, a PURCHASE sinks into it; there
// is no transaction with only one leg (spec §3).
type MonetaryTransaction struct {
	id                  uuid.UUID
	idempotencyKey      string
	transactionType     TransactionType
	status              TransactionStatus
	sourceWalletID      uuid.UUID
	destinationWalletID uuid.UUID
	amount              valueobjects.Money

	referenceID  string
	metadata     map[string]interface{}
	errorMessage string

	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time
}

// NewMonetaryTransaction creates a new transaction in PENDING status.
//
// Business rules (spec §3, §4.2):
//   - idempotency key is required and caller-supplied
//   - amount must be strictly positive
//   - source and destination wallets must differ
func NewMonetaryTransaction(
	idempotencyKey string,
	transactionType TransactionType,
	sourceWalletID, destinationWalletID uuid.UUID,
	amount valueobjects.Money,
	referenceID string,
	metadata map[string]interface{},
) (*MonetaryTransaction, error) {
	if idempotencyKey == "" {
		return nil, errors.ValidationError{
			Field:   "idempotencyKey",
			Message: "idempotency key is required",
		}
	}

	if !transactionType.IsValid() {
		return nil, errors.ErrInvalidTransactionType
	}

	if sourceWalletID == destinationWalletID {
		return nil, errors.NewBusinessRuleViolation(
			"SAME_WALLET",
			"source and destination wallet must differ",
			map[string]interface{}{"walletId": sourceWalletID},
		)
	}

	if err := amount.MustBePositive(); err != nil {
		return nil, errors.NewBusinessRuleViolation(
			"INVALID_AMOUNT",
			"transaction amount must be positive",
			map[string]interface{}{"amount": amount.String()},
		)
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	now := time.Now()
	return &MonetaryTransaction{
		id:                  uuid.New(),
		idempotencyKey:      idempotencyKey,
		transactionType:     transactionType,
		status:              TransactionStatusPending,
		sourceWalletID:      sourceWalletID,
		destinationWalletID: destinationWalletID,
		amount:              amount,
		referenceID:         referenceID,
		metadata:            metadata,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// ReconstructMonetaryTransaction reconstructs a MonetaryTransaction from stored data.
func ReconstructMonetaryTransaction(
	id uuid.UUID,
	idempotencyKey string,
	transactionType TransactionType,
	status TransactionStatus,
	sourceWalletID, destinationWalletID uuid.UUID,
	amount valueobjects.Money,
	referenceID string,
	metadataJSON []byte,
	errorMessage string,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) (*MonetaryTransaction, error) {
	var metadata map[string]interface{}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return nil, err
		}
	} else {
		metadata = make(map[string]interface{})
	}

	return &MonetaryTransaction{
		id:                  id,
		idempotencyKey:      idempotencyKey,
		transactionType:     transactionType,
		status:              status,
		sourceWalletID:      sourceWalletID,
		destinationWalletID: destinationWalletID,
		amount:              amount,
		referenceID:         referenceID,
		metadata:            metadata,
		errorMessage:        errorMessage,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		completedAt:         completedAt,
	}, nil
}

// Getters

func (t *MonetaryTransaction) ID() uuid.UUID                    { return t.id }
func (t *MonetaryTransaction) IdempotencyKey() string           { return t.idempotencyKey }
func (t *MonetaryTransaction) Type() TransactionType            { return t.transactionType }
func (t *MonetaryTransaction) Status() TransactionStatus        { return t.status }
func (t *MonetaryTransaction) SourceWalletID() uuid.UUID        { return t.sourceWalletID }
func (t *MonetaryTransaction) DestinationWalletID() uuid.UUID   { return t.destinationWalletID }
func (t *MonetaryTransaction) Amount() valueobjects.Money       { return t.amount }
func (t *MonetaryTransaction) ReferenceID() string              { return t.referenceID }
func (t *MonetaryTransaction) Metadata() map[string]interface{} { return t.metadata }
func (t *MonetaryTransaction) ErrorMessage() string             { return t.errorMessage }
func (t *MonetaryTransaction) CreatedAt() time.Time             { return t.createdAt }
func (t *MonetaryTransaction) UpdatedAt() time.Time             { return t.updatedAt }
func (t *MonetaryTransaction) CompletedAt() *time.Time          { return t.completedAt }

// IsPending returns true if the transaction hasn't reached a terminal state.
func (t *MonetaryTransaction) IsPending() bool {
	return t.status == TransactionStatusPending
}

// IsCompleted returns true if the transaction completed successfully.
func (t *MonetaryTransaction) IsCompleted() bool {
	return t.status == TransactionStatusCompleted
}

// IsFailed returns true if the transaction failed.
func (t *MonetaryTransaction) IsFailed() bool {
	return t.status == TransactionStatusFailed
}

// IsFinal returns true if the transaction is in a terminal state.
func (t *MonetaryTransaction) IsFinal() bool {
	return t.status.IsFinal()
}

// MarkCompleted transitions the transaction to COMPLETED. Called by the
// executor in the same database transaction that writes the ledger entries
// and updates both wallet balances — all three commit atomically or not at
// all (spec §4.2 step 7).
func (t *MonetaryTransaction) MarkCompleted() error {
	if !t.IsPending() {
		return errors.ErrTransactionAlreadyProcessed
	}

	now := time.Now()
	t.status = TransactionStatusCompleted
	t.completedAt = &now
	t.updatedAt = now
	return nil
}

// MarkFailed transitions the transaction to FAILED with a reason. Once
// FAILED, a retry under the same idempotency key is rejected by the
// Idempotency Gate as terminally failed (spec §4.1, §7).
func (t *MonetaryTransaction) MarkFailed(reason string) error {
	if t.IsFinal() {
		return errors.ErrTransactionAlreadyProcessed
	}

	now := time.Now()
	t.status = TransactionStatusFailed
	t.errorMessage = reason
	t.completedAt = &now
	t.updatedAt = now
	return nil
}
