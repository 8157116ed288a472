// Package wallet - ListWallets use case for a filtered, paginated wallet list.
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// ListWalletsUseCase returns wallets matching a filter, paginated.
type ListWalletsUseCase struct {
	walletRepo ports.WalletRepository
}

// NewListWalletsUseCase creates a new use case.
func NewListWalletsUseCase(walletRepo ports.WalletRepository) *ListWalletsUseCase {
	return &ListWalletsUseCase{walletRepo: walletRepo}
}

// Execute returns the filtered, paginated wallet list.
func (uc *ListWalletsUseCase) Execute(ctx context.Context, query dtos.ListWalletsQuery) (*dtos.WalletListDTO, error) {
	filter := ports.WalletFilter{}

	if query.UserID != nil {
		userID, err := uuid.Parse(*query.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id: %w", err)
		}
		filter.UserID = &userID
	}

	if query.AssetType != nil {
		assetType, err := valueobjects.NewCurrency(*query.AssetType)
		if err != nil {
			return nil, fmt.Errorf("invalid asset_type: %w", err)
		}
		filter.AssetType = &assetType
	}

	wallets, err := uc.walletRepo.List(ctx, filter, query.Offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	return &dtos.WalletListDTO{
		Wallets:    dtos.ToWalletDTOList(wallets),
		TotalCount: len(wallets),
		Offset:     query.Offset,
		Limit:      query.Limit,
	}, nil
}
