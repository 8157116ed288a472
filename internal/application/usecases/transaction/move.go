package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/application/dtos"
	"github.com/vinayak20130/ledgervault/internal/application/ledger"
	"github.com/vinayak20130/ledgervault/internal/application/ports"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// resolveWallets loads the treasury wallet and the user's wallet for the
// given asset type, creating the user wallet on first use is explicitly NOT
// done here — a wallet must already exist (spec §3: wallets are provisioned
// through CreateWallet, never implicitly by a movement).
func resolveWallets(ctx context.Context, walletRepo ports.WalletRepository, userID uuid.UUID, assetTypeCode string) (userWallet, treasuryWallet *entities.Wallet, err error) {
	assetType, err := valueobjects.NewCurrency(assetTypeCode)
	if err != nil {
		return nil, nil, errors.ValidationError{Field: "asset_type", Message: fmt.Sprintf("invalid asset type: %v", err)}
	}

	userWallet, err = walletRepo.FindByUserAndAssetType(ctx, userID, assetType)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, errors.NewDomainError("WALLET_NOT_FOUND", "user has no wallet for this asset type", err)
		}
		return nil, nil, fmt.Errorf("load user wallet: %w", err)
	}

	treasuryWallet, err = walletRepo.FindTreasuryWallet(ctx, assetType)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, errors.NewDomainError("TREASURY_NOT_FOUND", "no treasury wallet provisioned for this asset type", err)
		}
		return nil, nil, fmt.Errorf("load treasury wallet: %w", err)
	}

	return userWallet, treasuryWallet, nil
}

func buildAmount(assetTypeCode, amount string) (valueobjects.Money, error) {
	assetType, err := valueobjects.NewCurrency(assetTypeCode)
	if err != nil {
		return valueobjects.Money{}, errors.ValidationError{Field: "asset_type", Message: fmt.Sprintf("invalid asset type: %v", err)}
	}
	money, err := valueobjects.NewMoney(amount, assetType)
	if err != nil {
		return valueobjects.Money{}, errors.ValidationError{Field: "amount", Message: fmt.Sprintf("invalid amount: %v", err)}
	}
	return money, nil
}

// TopUpUseCase credits a user wallet from the treasury — an external
// deposit entering the system (spec §4, TOP_UP).
type TopUpUseCase struct {
	walletRepo ports.WalletRepository
	executor   *ledger.Executor
}

// NewTopUpUseCase creates a new use case.
func NewTopUpUseCase(walletRepo ports.WalletRepository, executor *ledger.Executor) *TopUpUseCase {
	return &TopUpUseCase{walletRepo: walletRepo, executor: executor}
}

// Execute runs a TOP_UP movement: treasury -> user wallet.
func (uc *TopUpUseCase) Execute(ctx context.Context, cmd dtos.TopUpCommand) (*dtos.TransactionResultDTO, error) {
	return runMovement(ctx, uc.walletRepo, uc.executor, entities.TransactionTypeTopUp, cmd.UserID, cmd.AssetType, cmd.Amount, cmd.IdempotencyKey, cmd.ReferenceID, cmd.Metadata, false)
}

// BonusUseCase credits a user wallet from the treasury as a promotional
// grant — identical money movement to TOP_UP, distinguished only by type
// for reporting and analytics (spec §4, BONUS).
type BonusUseCase struct {
	walletRepo ports.WalletRepository
	executor   *ledger.Executor
}

// NewBonusUseCase creates a new use case.
func NewBonusUseCase(walletRepo ports.WalletRepository, executor *ledger.Executor) *BonusUseCase {
	return &BonusUseCase{walletRepo: walletRepo, executor: executor}
}

// Execute runs a BONUS movement: treasury -> user wallet.
func (uc *BonusUseCase) Execute(ctx context.Context, cmd dtos.BonusCommand) (*dtos.TransactionResultDTO, error) {
	return runMovement(ctx, uc.walletRepo, uc.executor, entities.TransactionTypeBonus, cmd.UserID, cmd.AssetType, cmd.Amount, cmd.IdempotencyKey, cmd.ReferenceID, cmd.Metadata, false)
}

// PurchaseUseCase debits a user wallet into the treasury — spending balance
// against some catalog item (spec §4, PURCHASE). The user wallet is the
// source, so an insufficient balance is a terminal business-rule failure.
type PurchaseUseCase struct {
	walletRepo ports.WalletRepository
	executor   *ledger.Executor
}

// NewPurchaseUseCase creates a new use case.
func NewPurchaseUseCase(walletRepo ports.WalletRepository, executor *ledger.Executor) *PurchaseUseCase {
	return &PurchaseUseCase{walletRepo: walletRepo, executor: executor}
}

// Execute runs a PURCHASE movement: user wallet -> treasury.
func (uc *PurchaseUseCase) Execute(ctx context.Context, cmd dtos.PurchaseCommand) (*dtos.TransactionResultDTO, error) {
	return runMovement(ctx, uc.walletRepo, uc.executor, entities.TransactionTypePurchase, cmd.UserID, cmd.AssetType, cmd.Amount, cmd.IdempotencyKey, cmd.ReferenceID, cmd.Metadata, true)
}

// runMovement resolves wallets and asset type, builds a ledger.MoveCommand
// with the wallets on the correct side, and delegates to the Transaction
// Executor. userIsSource is false for TOP_UP/BONUS (treasury -> user) and
// true for PURCHASE (user -> treasury).
func runMovement(
	ctx context.Context,
	walletRepo ports.WalletRepository,
	executor *ledger.Executor,
	txType entities.TransactionType,
	userIDStr, assetTypeCode, amountStr, idempotencyKey, referenceID string,
	metadata map[string]interface{},
	userIsSource bool,
) (*dtos.TransactionResultDTO, error) {
	if idempotencyKey == "" {
		return nil, errors.ValidationError{Field: "idempotency_key", Message: "idempotency key is required"}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
	}

	userWallet, treasuryWallet, err := resolveWallets(ctx, walletRepo, userID, assetTypeCode)
	if err != nil {
		return nil, err
	}

	amount, err := buildAmount(assetTypeCode, amountStr)
	if err != nil {
		return nil, err
	}

	sourceID, destID := treasuryWallet.ID(), userWallet.ID()
	if userIsSource {
		sourceID, destID = userWallet.ID(), treasuryWallet.ID()
	}

	result, err := executor.Execute(ctx, ledger.MoveCommand{
		IdempotencyKey:      idempotencyKey,
		Type:                txType,
		SourceWalletID:      sourceID,
		DestinationWalletID: destID,
		Amount:              amount,
		ReferenceID:         referenceID,
		Metadata:            metadata,
	})
	if err != nil {
		return nil, err
	}

	return &dtos.TransactionResultDTO{
		Transaction:   dtos.ToTransactionDTO(result.Transaction),
		LedgerEntries: dtos.ToLedgerEntryDTOList(result.LedgerEntries),
	}, nil
}
