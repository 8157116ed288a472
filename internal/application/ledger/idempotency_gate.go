// Package ledger implements the transactional value-movement engine: the
// Idempotency Gate and the Transaction Executor that every TOP_UP, BONUS,
// and PURCHASE request runs through (spec §4.1, §4.2).
package ledger

import (
	"context"
	"fmt"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// IdempotencyGate classifies a request's idempotency key against prior
// attempts before the executor does any work, and again — inside the
// executor's database transaction — to collapse a race between two
// concurrent requests that both passed the pre-check (spec §4.1).
//
// Classification of FindByIdempotencyKey's result:
//   - not found (nil, nil)           -> first attempt, proceed
//   - found, status COMPLETED        -> replay: return the stored result
//   - found, status PENDING          -> ErrConflictInFlight: a prior attempt
//     under this key hasn't resolved yet
//   - found, status FAILED           -> TerminallyFailedError: this key is
//     burned, it can never succeed
type IdempotencyGate struct {
	transactionRepo ports.TransactionRepository
}

// NewIdempotencyGate creates a new IdempotencyGate.
func NewIdempotencyGate(transactionRepo ports.TransactionRepository) *IdempotencyGate {
	return &IdempotencyGate{transactionRepo: transactionRepo}
}

// Check looks up the idempotency key and returns the existing transaction
// when one is found, or a classification error (ConflictInFlight,
// TerminallyFailed). Returns (nil, nil) when this is genuinely the first
// attempt under the key.
func (g *IdempotencyGate) Check(ctx context.Context, idempotencyKey string) (*entities.MonetaryTransaction, error) {
	existing, err := g.transactionRepo.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("idempotency gate lookup: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	switch existing.Status() {
	case entities.TransactionStatusCompleted:
		return existing, nil
	case entities.TransactionStatusPending:
		return nil, errors.ErrConflictInFlight
	case entities.TransactionStatusFailed:
		return nil, errors.NewTerminallyFailedError(idempotencyKey, existing.ErrorMessage())
	default:
		return nil, fmt.Errorf("idempotency gate: transaction %s has unrecognized status %s", existing.ID(), existing.Status())
	}
}

// CheckRace re-runs Check immediately after a unique-constraint violation on
// insert, to classify the row the other concurrent request just won the
// race to create. By the time this runs the loser already knows a row
// exists under this key — it's the same classification Check does, reused
// so the insert-then-reclassify path and the pre-check path behave
// identically (spec §4.1, §8 "at-most-once, race-safe").
func (g *IdempotencyGate) CheckRace(ctx context.Context, idempotencyKey string) (*entities.MonetaryTransaction, error) {
	existing, err := g.Check(ctx, idempotencyKey)
	if err != nil {
		return existing, err
	}
	if existing == nil {
		// The unique constraint fired but the row isn't visible yet under
		// this isolation level — the winner hasn't committed. Treat as
		// in-flight rather than silently proceeding to a second insert.
		return nil, errors.ErrConflictInFlight
	}
	return existing, nil
}
