// Package postgres - shared helpers for working with PostgreSQL errors and
// the request-scoped transaction.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// txKey is the context key a transaction is stashed under.
type txKey struct{}

// injectTx stashes a transaction in ctx. Used by UnitOfWork to hand
// repositories the transaction instead of the bare pool.
func injectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// extractTx pulls the transaction out of ctx, or nil if there isn't one.
func extractTx(ctx context.Context) pgx.Tx {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil
	}
	return tx
}

// hasTx reports whether ctx already carries a transaction.
func hasTx(ctx context.Context) bool {
	return extractTx(ctx) != nil
}

// PostgreSQL error codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// isPgError reports whether err is a PgError with the given code.
func isPgError(err error, code string) bool {
	if err == nil {
		return false
	}

	pgErr, ok := err.(*pgconn.PgError)
	if !ok {
		return false
	}

	return pgErr.Code == code
}

// isUniqueViolation reports a unique-constraint violation. constraintName is
// optional; when given, the constraint name must contain it.
func isUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	pgErr, ok := err.(*pgconn.PgError)
	if !ok {
		return false
	}

	if pgErr.Code != pgUniqueViolation {
		return false
	}

	if constraintName != "" {
		return strings.Contains(pgErr.ConstraintName, constraintName)
	}

	return true
}

// isForeignKeyViolation reports a foreign-key constraint violation.
func isForeignKeyViolation(err error) bool {
	return isPgError(err, pgForeignKeyViolation)
}

// isSerializationFailure reports a serialization failure or deadlock —
// both retryable.
func isSerializationFailure(err error) bool {
	return isPgError(err, pgSerializationFailure) || isPgError(err, pgDeadlockDetected)
}

// isNotNullViolation reports a NOT NULL constraint violation.
func isNotNullViolation(err error) bool {
	return isPgError(err, pgNotNullViolation)
}

// isCheckViolation reports a CHECK constraint violation.
func isCheckViolation(err error) bool {
	return isPgError(err, pgCheckViolation)
}

// isRetryableError reports whether the operation that produced err is
// safe to retry: serialization failures, deadlocks, and connection errors.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if isSerializationFailure(err) {
		return true
	}

	pgErr, ok := err.(*pgconn.PgError)
	if ok {
		return strings.HasPrefix(pgErr.Code, "08") // Class 08: Connection Exception
	}

	return false
}
