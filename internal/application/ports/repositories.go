// Package ports defines the interfaces (ports) for external dependencies.
// Implementations live in the infrastructure layer.
//
// SOLID Principles:
// - DIP: the application layer depends on abstractions, not concrete adapters
// - ISP: each interface stays focused on one entity
// - SRP: a repository is responsible for persistence only
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// UserRepository is the storage contract for users.
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*entities.User, error)
}

// AssetTypeRepository is the storage contract for asset types (reference data).
type AssetTypeRepository interface {
	Save(ctx context.Context, assetType *entities.AssetType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AssetType, error)
	FindByCode(ctx context.Context, code valueobjects.Currency) (*entities.AssetType, error)
	List(ctx context.Context) ([]*entities.AssetType, error)
}

// WalletRepository is the storage contract for wallets.
//
// Wallet is an aggregate root: Save persists the whole aggregate (balance
// included) in one statement. Unlike the teacher's optimistic version check,
// safe concurrent mutation here is the Wallet Locker's job — callers that
// intend to mutate a balance must lock it through WalletLocker (LockOne or
// LockPair) first and keep
// using the same querier (transaction) for the subsequent Save.
type WalletRepository interface {
	Save(ctx context.Context, wallet *entities.Wallet) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	FindByUserAndAssetType(ctx context.Context, userID uuid.UUID, assetType valueobjects.Currency) (*entities.Wallet, error)
	FindTreasuryWallet(ctx context.Context, assetType valueobjects.Currency) (*entities.Wallet, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entities.Wallet, error)
	ExistsByUserAndAssetType(ctx context.Context, userID uuid.UUID, assetType valueobjects.Currency) (bool, error)
	List(ctx context.Context, filter WalletFilter, offset, limit int) ([]*entities.Wallet, error)
}

// WalletFilter defines the filter criteria for listing wallets.
type WalletFilter struct {
	UserID    *uuid.UUID
	AssetType *valueobjects.Currency
}

// WalletLocker is the Wallet Locker port (spec §4.3): it acquires exclusive
// row locks on one or two wallets inside the caller's database transaction,
// always in a stable canonical order, so two concurrent requests touching
// the same pair of wallets can never deadlock against each other.
//
// LockPair must be called instead of two separate LockOne calls whenever a
// transaction touches two wallets — calling LockOne twice in caller-supplied
// order is exactly the deadlock the canonical ordering exists to prevent.
type WalletLocker interface {
	// LockOne acquires an exclusive lock on a single wallet row and returns
	// its current state as of the lock.
	LockOne(ctx context.Context, walletID uuid.UUID) (*entities.Wallet, error)

	// LockPair locks both wallets in canonical (byte-order) order and
	// returns them keyed by their original positional role, not lock order.
	LockPair(ctx context.Context, walletAID, walletBID uuid.UUID) (walletA, walletB *entities.Wallet, err error)
}

// TransactionRepository is the storage contract for monetary transactions.
type TransactionRepository interface {
	// Save persists a transaction. Insert-or-update is driven entirely by
	// whether the row already exists; the first insert is where the unique
	// constraint on idempotency_key can signal a DuplicateKeyRace.
	Save(ctx context.Context, tx *entities.MonetaryTransaction) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.MonetaryTransaction, error)

	// FindByIdempotencyKey returns (nil, nil) when no transaction with this
	// key exists yet — absence is not an error, it's the Idempotency Gate's
	// "first attempt" case (spec §4.1).
	FindByIdempotencyKey(ctx context.Context, key string) (*entities.MonetaryTransaction, error)

	FindByWalletID(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.MonetaryTransaction, error)

	List(ctx context.Context, filter TransactionFilter, offset, limit int) ([]*entities.MonetaryTransaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int, error)
}

// TransactionFilter defines the filter criteria for listing transactions.
type TransactionFilter struct {
	WalletID *uuid.UUID
	UserID   *uuid.UUID
	Type     *entities.TransactionType
	Status   *entities.TransactionStatus
}

// LedgerEntryRepository is the storage contract for ledger entries — the
// Ledger Writer's output. There is deliberately no Update or Delete method:
// ledger entries are insert-only (spec §4.4, §7 LedgerImmutable).
type LedgerEntryRepository interface {
	// Insert writes a single ledger entry. Ledger Writer calls this twice
	// per transaction (once per side of the double entry) in the same
	// database transaction as the wallet balance updates.
	Insert(ctx context.Context, entry *entities.LedgerEntry) error

	FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entities.LedgerEntry, error)
	FindByWalletID(ctx context.Context, walletID uuid.UUID, offset, limit int) ([]*entities.LedgerEntry, error)

	// LatestForWallet returns the most recent ledger entry for a wallet —
	// its balanceAfter is the wallet's authoritative running balance,
	// independent of whatever is cached in the wallets.balance column.
	LatestForWallet(ctx context.Context, walletID uuid.UUID) (*entities.LedgerEntry, error)
}
