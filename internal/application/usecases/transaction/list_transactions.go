package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
)

// ListTransactionsUseCase returns a filtered, paginated transaction list.
type ListTransactionsUseCase struct {
	transactionRepo ports.TransactionRepository
}

// NewListTransactionsUseCase creates a new use case.
func NewListTransactionsUseCase(transactionRepo ports.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepo: transactionRepo}
}

// Execute returns the filtered, paginated transaction list.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, query dtos.ListTransactionsQuery) (*dtos.TransactionListDTO, error) {
	filter := ports.TransactionFilter{}

	if query.WalletID != nil {
		walletID, err := uuid.Parse(*query.WalletID)
		if err != nil {
			return nil, fmt.Errorf("invalid wallet_id: %w", err)
		}
		filter.WalletID = &walletID
	}

	if query.UserID != nil {
		userID, err := uuid.Parse(*query.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id: %w", err)
		}
		filter.UserID = &userID
	}

	if query.Type != nil {
		txType := entities.TransactionType(*query.Type)
		filter.Type = &txType
	}

	if query.Status != nil {
		txStatus := entities.TransactionStatus(*query.Status)
		filter.Status = &txStatus
	}

	transactions, err := uc.transactionRepo.List(ctx, filter, query.Offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	totalCount, err := uc.transactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	return &dtos.TransactionListDTO{
		Transactions: dtos.ToTransactionDTOList(transactions),
		TotalCount:   totalCount,
		Offset:       query.Offset,
		Limit:        query.Limit,
	}, nil
}
