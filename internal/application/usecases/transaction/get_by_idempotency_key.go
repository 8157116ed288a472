package transaction

import (
	"context"
	"fmt"

	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// GetTransactionByIdempotencyKeyUseCase looks a transaction up by its
// idempotency key — the same lookup the Idempotency Gate performs, exposed
// for callers that want to poll the outcome of a prior request.
type GetTransactionByIdempotencyKeyUseCase struct {
	transactionRepo ports.TransactionRepository
}

// NewGetTransactionByIdempotencyKeyUseCase creates a new use case.
func NewGetTransactionByIdempotencyKeyUseCase(transactionRepo ports.TransactionRepository) *GetTransactionByIdempotencyKeyUseCase {
	return &GetTransactionByIdempotencyKeyUseCase{transactionRepo: transactionRepo}
}

// Execute returns the transaction for the given idempotency key.
func (uc *GetTransactionByIdempotencyKeyUseCase) Execute(ctx context.Context, query dtos.GetTransactionByIdempotencyKeyQuery) (*dtos.TransactionDTO, error) {
	if query.IdempotencyKey == "" {
		return nil, errors.ValidationError{Field: "idempotency_key", Message: "idempotency key is required"}
	}

	tx, err := uc.transactionRepo.FindByIdempotencyKey(ctx, query.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("find transaction by idempotency key: %w", err)
	}
	if tx == nil {
		return nil, errors.NewDomainError("TRANSACTION_NOT_FOUND", "transaction not found", errors.ErrEntityNotFound)
	}

	result := dtos.ToTransactionDTO(tx)
	return &result, nil
}
