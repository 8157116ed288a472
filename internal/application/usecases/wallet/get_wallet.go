// Package wallet holds the GetWallet use case for looking up a wallet by ID.
package wallet

import (
	"context"
	"fmt"

	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/google/uuid"
)

// GetWalletUseCase fetches a single wallet by its ID.
type GetWalletUseCase struct {
	walletRepo ports.WalletRepository
}

// NewGetWalletUseCase constructs a GetWalletUseCase.
func NewGetWalletUseCase(walletRepo ports.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{
		walletRepo: walletRepo,
	}
}

// Execute returns the wallet matching the given ID.
func (uc *GetWalletUseCase) Execute(ctx context.Context, query dtos.GetWalletQuery) (*dtos.WalletDTO, error) {
	walletID, err := uuid.Parse(query.WalletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID"}
	}

	wallet, err := uc.walletRepo.FindByID(ctx, walletID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: wallet %s", errors.ErrEntityNotFound, query.WalletID)
		}
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	dto := dtos.ToWalletDTO(wallet)
	return &dto, nil
}
