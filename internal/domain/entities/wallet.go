// Package entities - Wallet holds the balance of one (user, asset type) pair.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// Wallet represents the balance of one (user, asset type) pair (spec §3).
//
// Invariants: a USER-owned wallet's balance must never go negative; a
// SYSTEM-owned (treasury) wallet may, since it mints and burns supply.
// Balance is mutated only by the Transaction Executor, under an exclusive
// row lock acquired by the Wallet Locker — Credit/Debit here are the pure
// business-rule layer the executor calls once the lock is held.
type Wallet struct {
	id        uuid.UUID
	userID    uuid.UUID
	assetType valueobjects.Currency
	ownerRole Role
	balance   valueobjects.Money
	createdAt time.Time
	updatedAt time.Time
}

// NewWallet creates a new wallet with a zero balance.
func NewWallet(userID uuid.UUID, assetType valueobjects.Currency, ownerRole Role) (*Wallet, error) {
	if assetType.IsZero() {
		return nil, errors.ValidationError{Field: "assetType", Message: "asset type is required"}
	}
	if !ownerRole.IsValid() {
		return nil, errors.ErrInvalidRole
	}

	now := time.Now()
	return &Wallet{
		id:        uuid.New(),
		userID:    userID,
		assetType: assetType,
		ownerRole: ownerRole,
		balance:   valueobjects.Zero(assetType),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructWallet hydrates a Wallet from stored data.
func ReconstructWallet(
	id, userID uuid.UUID,
	assetType valueobjects.Currency,
	ownerRole Role,
	balance valueobjects.Money,
	createdAt, updatedAt time.Time,
) *Wallet {
	return &Wallet{
		id:        id,
		userID:    userID,
		assetType: assetType,
		ownerRole: ownerRole,
		balance:   balance,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (w *Wallet) ID() uuid.UUID                  { return w.id }
func (w *Wallet) UserID() uuid.UUID              { return w.userID }
func (w *Wallet) AssetType() valueobjects.Currency { return w.assetType }
func (w *Wallet) OwnerRole() Role                { return w.ownerRole }
func (w *Wallet) Balance() valueobjects.Money     { return w.balance }
func (w *Wallet) CreatedAt() time.Time            { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time            { return w.updatedAt }

// IsTreasury returns true if this is the SYSTEM/treasury wallet for its asset type.
func (w *Wallet) IsTreasury() bool {
	return w.ownerRole == RoleSystem
}

// HasSufficientBalance checks if the wallet has enough balance for amount.
// Only meaningful for USER wallets; treasury wallets are exempt from the
// overdraft check by policy (spec §3, §4.2).
func (w *Wallet) HasSufficientBalance(amount valueobjects.Money) (bool, error) {
	return w.balance.GreaterThanOrEqual(amount)
}

// Credit adds funds to the wallet. Used for the destination side of a
// movement (TOP_UP/BONUS into a user wallet, PURCHASE into the treasury).
func (w *Wallet) Credit(amount valueobjects.Money) error {
	if !w.assetType.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"ASSET_TYPE_MISMATCH",
			"amount asset type doesn't match wallet asset type",
			map[string]interface{}{
				"walletAssetType": w.assetType.Code(),
				"amountAssetType": amount.Currency().Code(),
			},
		)
	}

	newBalance, err := w.balance.Add(amount)
	if err != nil {
		return err
	}

	w.balance = newBalance
	w.updatedAt = time.Now()
	return nil
}

// Debit subtracts funds from the wallet. A USER wallet rejects a debit that
// would take its balance negative (ErrInsufficientBalance); a SYSTEM/
// treasury wallet allows it — the treasury is the supply of last resort.
func (w *Wallet) Debit(amount valueobjects.Money) error {
	if !w.assetType.Equals(amount.Currency()) {
		return errors.NewBusinessRuleViolation(
			"ASSET_TYPE_MISMATCH",
			"amount asset type doesn't match wallet asset type",
			map[string]interface{}{
				"walletAssetType": w.assetType.Code(),
				"amountAssetType": amount.Currency().Code(),
			},
		)
	}

	if w.IsTreasury() {
		newBalance, err := w.balance.SubtractAllowNegative(amount)
		if err != nil {
			return err
		}
		w.balance = newBalance
		w.updatedAt = time.Now()
		return nil
	}

	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		if err == valueobjects.ErrInsufficientAmount {
			return errors.ErrInsufficientBalance
		}
		return err
	}

	w.balance = newBalance
	w.updatedAt = time.Now()
	return nil
}
