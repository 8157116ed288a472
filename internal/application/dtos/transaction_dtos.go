// Package dtos - Transaction DTOs for the ledger's external interface (spec §5).
package dtos

import "time"

// ============================================
// Commands (movement requests)
// ============================================

// TopUpCommand requests a TOP_UP: treasury -> user wallet, caller-initiated
// funding (spec §2, §4.2).
type TopUpCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required"`
	ReferenceID    string                 `json:"reference_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// BonusCommand requests a BONUS: treasury -> user wallet, platform-initiated
// grant (spec §2, §4.2).
type BonusCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required"`
	ReferenceID    string                 `json:"reference_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// PurchaseCommand requests a PURCHASE: user wallet -> treasury, spend of
// virtual currency (spec §2, §4.2).
type PurchaseCommand struct {
	UserID         string                 `json:"user_id" validate:"required,uuid"`
	AssetType      string                 `json:"asset_type" validate:"required"`
	Amount         string                 `json:"amount" validate:"required"`
	IdempotencyKey string                 `json:"idempotency_key" validate:"required"`
	ReferenceID    string                 `json:"reference_id,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetTransactionQuery requests a transaction by ID.
type GetTransactionQuery struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

// GetTransactionByIdempotencyKeyQuery requests a transaction by its idempotency key.
type GetTransactionByIdempotencyKeyQuery struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

// ListTransactionsQuery requests a filtered, paginated transaction list.
type ListTransactionsQuery struct {
	WalletID *string `json:"wallet_id,omitempty" validate:"omitempty,uuid"`
	UserID   *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Type     *string `json:"type,omitempty" validate:"omitempty,oneof=TOP_UP BONUS PURCHASE"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED FAILED"`
	Offset   int     `json:"offset" validate:"min=0"`
	Limit    int     `json:"limit" validate:"min=1,max=100"`
}

// ============================================
// Response DTOs
// ============================================

// TransactionDTO is the API representation of a monetary transaction.
type TransactionDTO struct {
	ID                  string                 `json:"id"`
	IdempotencyKey      string                 `json:"idempotency_key"`
	Type                string                 `json:"type"`
	Status              string                 `json:"status"`
	SourceWalletID      string                 `json:"source_wallet_id"`
	DestinationWalletID string                 `json:"destination_wallet_id"`
	Amount              string                 `json:"amount"`
	AssetType           string                 `json:"asset_type"`
	ReferenceID         string                 `json:"reference_id,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	ErrorMessage        string                 `json:"error_message,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
	CompletedAt         *time.Time             `json:"completed_at,omitempty"`
}

// LedgerEntryDTO is the API representation of one side of a double entry.
type LedgerEntryDTO struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	WalletID      string    `json:"wallet_id"`
	EntryType     string    `json:"entry_type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionListDTO is the result of a paginated transaction list query.
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	TotalCount   int              `json:"total_count"`
	Offset       int              `json:"offset"`
	Limit        int              `json:"limit"`
}

// TransactionResultDTO is the result of a movement operation, including the
// two ledger entries it produced (empty on a FAILED result).
type TransactionResultDTO struct {
	Transaction  TransactionDTO   `json:"transaction"`
	LedgerEntries []LedgerEntryDTO `json:"ledger_entries,omitempty"`
}
