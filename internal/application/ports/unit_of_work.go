// Package ports - UnitOfWork is the transaction-boundary abstraction.
//
// SOLID Principles:
// - SRP: UnitOfWork is responsible only for transaction boundaries
// - DIP: the application layer doesn't know about database transaction details
//
// Pattern: Unit of Work
// - Guarantees several operations commit atomically
// - One UnitOfWork = one database transaction
// - Automatic rollback on error
package ports

import "context"

// UnitOfWork defines the contract for transaction management.
//
// Example:
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    walletA, walletB, _ := locker.LockPair(txCtx, walletAID, walletBID)
//	    _ = walletB
//	    return walletRepo.Save(txCtx, walletA)
//	})
//	// fn returns error -> rollback; fn returns nil -> commit
type UnitOfWork interface {
	// Execute runs fn inside a database transaction. The context passed to
	// fn carries the transaction — every repository call inside fn must use
	// that context, not the outer one, or it runs outside the transaction.
	Execute(ctx context.Context, fn func(context.Context) error) error

	// ExecuteWithResult is Execute but returns a value alongside the error,
	// for callers that need the entity they created/mutated inside fn.
	ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error)
}

// UnitOfWorkFactory creates UnitOfWork instances. Most callers share a
// single UnitOfWork for the process; the factory exists for callers that
// need isolated transactions (e.g. the outbox relay polling independently
// of request-handling transactions).
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
