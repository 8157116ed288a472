// Package postgres - UnitOfWork implementation for PostgreSQL.
//
// Unit of Work Pattern:
// - Owns transaction boundaries
// - Guarantees atomicity across repository calls
// - Automatic ROLLBACK on error or panic
// - Automatic COMMIT on success
//
// Usage:
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    walletA, walletB, _ := locker.LockPair(txCtx, aID, bID)
//	    return walletRepo.Save(txCtx, walletA)
//	})
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vinayak20130/ledgervault/internal/application/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)
var _ ports.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// UnitOfWork implements ports.UnitOfWork with PostgreSQL transactions.
//
// Thread-safe: built on a connection pool. Default isolation is READ
// COMMITTED, matching the Wallet Locker's pessimistic row locks — there is
// no need for SERIALIZABLE when the locks already serialize access to the
// rows a transaction touches.
type UnitOfWork struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// NewUnitOfWorkWithIsolation creates a UnitOfWork at a specific isolation level.
func NewUnitOfWorkWithIsolation(pool *pgxpool.Pool, isolation pgx.TxIsoLevel) *UnitOfWork {
	return &UnitOfWork{
		pool: pool,
		opts: pgx.TxOptions{IsoLevel: isolation},
	}
}

// Execute runs fn inside a transaction.
//
// Behavior:
//   - begins a transaction
//   - injects it into the context passed to fn
//   - fn returns nil: COMMIT
//   - fn returns error: ROLLBACK, error propagated
//   - panic: ROLLBACK, then re-panic
//
// A call already running inside a transaction (ctx already carries one) just
// runs fn directly — PostgreSQL doesn't nest real transactions, and nothing
// in this codebase needs savepoints.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if hasTx(ctx) {
		return fn(ctx)
	}

	tx, err := u.pool.BeginTx(ctx, u.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	txCtx := injectTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ExecuteWithResult is Execute but returns a value alongside the error.
func (u *UnitOfWork) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	var result interface{}

	err := u.Execute(ctx, func(txCtx context.Context) error {
		var fnErr error
		result, fnErr = fn(txCtx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteWithRetry runs the transaction again on a retryable error
// (serialization failure, deadlock) up to maxRetries times. The Wallet
// Locker's canonical lock order should make deadlocks rare in practice; this
// exists as a safety net, not the primary concurrency-control mechanism.
func (u *UnitOfWork) ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := u.Execute(ctx, fn)
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// UnitOfWorkFactory creates UnitOfWork instances, for callers that need
// isolation settings different from the process default (e.g. the outbox
// relay running its own independent transactions).
type UnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: pool}
}

// New creates a UnitOfWork with default settings.
func (f *UnitOfWorkFactory) New() ports.UnitOfWork {
	return NewUnitOfWork(f.pool)
}

// NewWithIsolation creates a UnitOfWork at a specific isolation level.
func (f *UnitOfWorkFactory) NewWithIsolation(isolation pgx.TxIsoLevel) *UnitOfWork {
	return NewUnitOfWorkWithIsolation(f.pool, isolation)
}

// NewSerializable creates a UnitOfWork at SERIALIZABLE isolation, for
// batch/reporting jobs that read across many rows and need a consistent
// snapshot rather than row locks.
func (f *UnitOfWorkFactory) NewSerializable() *UnitOfWork {
	return NewUnitOfWorkWithIsolation(f.pool, pgx.Serializable)
}
