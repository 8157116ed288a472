// Package wallet contains use cases for wallet lookup and provisioning.
package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/events"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// CreateWalletUseCase opens a new wallet for a (user, asset type) pair.
//
// Business rules:
// - the user must exist
// - a user may have at most one wallet per asset type (spec §3)
type CreateWalletUseCase struct {
	userRepo       ports.UserRepository
	walletRepo     ports.WalletRepository
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
}

// NewCreateWalletUseCase creates a new use case.
func NewCreateWalletUseCase(
	userRepo ports.UserRepository,
	walletRepo ports.WalletRepository,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		userRepo:       userRepo,
		walletRepo:     walletRepo,
		eventPublisher: eventPublisher,
		uow:            uow,
	}
}

// Execute opens the wallet.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error) {
	var result *dtos.WalletDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		userID, err := uuid.Parse(cmd.UserID)
		if err != nil {
			return errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
		}

		assetType, err := valueobjects.NewCurrency(cmd.AssetType)
		if err != nil {
			return errors.ValidationError{Field: "asset_type", Message: fmt.Sprintf("invalid asset type: %v", err)}
		}

		user, err := uc.userRepo.FindByID(txCtx, userID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.NewDomainError("USER_NOT_FOUND", "user not found", err)
			}
			return fmt.Errorf("load user: %w", err)
		}

		exists, err := uc.walletRepo.ExistsByUserAndAssetType(txCtx, userID, assetType)
		if err != nil {
			return fmt.Errorf("check wallet existence: %w", err)
		}
		if exists {
			return errors.NewBusinessRuleViolation(
				"WALLET_ALREADY_EXISTS",
				fmt.Sprintf("wallet for asset type %s already exists", assetType.Code()),
				map[string]interface{}{"user_id": userID.String(), "asset_type": assetType.Code()},
			)
		}

		wallet, err := entities.NewWallet(userID, assetType, user.Role())
		if err != nil {
			return fmt.Errorf("create wallet entity: %w", err)
		}

		if err := uc.walletRepo.Save(txCtx, wallet); err != nil {
			return fmt.Errorf("save wallet: %w", err)
		}

		event := events.NewWalletCreated(wallet.ID(), userID, assetType)
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("publish WalletCreated event: %w", err)
		}

		dto := dtos.ToWalletDTO(wallet)
		result = &dto
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
