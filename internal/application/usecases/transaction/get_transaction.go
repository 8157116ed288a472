// Package transaction contains read use cases over monetary transactions.
package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
)

// GetTransactionUseCase fetches a transaction by ID.
type GetTransactionUseCase struct {
	transactionRepo ports.TransactionRepository
}

// NewGetTransactionUseCase creates a new use case.
func NewGetTransactionUseCase(transactionRepo ports.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactionRepo: transactionRepo}
}

// Execute returns the transaction for the given ID.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, query dtos.GetTransactionQuery) (*dtos.TransactionDTO, error) {
	txID, err := uuid.Parse(query.TransactionID)
	if err != nil {
		return nil, errors.ValidationError{Field: "transaction_id", Message: "invalid UUID"}
	}

	tx, err := uc.transactionRepo.FindByID(ctx, txID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewDomainError("TRANSACTION_NOT_FOUND", "transaction not found", err)
		}
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	result := dtos.ToTransactionDTO(tx)
	return &result, nil
}
