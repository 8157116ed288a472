// Package dtos - Wallet DTOs for the wallet lookup surface (spec §5).
package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// CreateWalletCommand requests a new wallet for a (user, asset type) pair.
type CreateWalletCommand struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	AssetType string `json:"asset_type" validate:"required"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetWalletQuery requests a wallet by ID.
type GetWalletQuery struct {
	WalletID string `json:"wallet_id" validate:"required,uuid"`
}

// GetWalletByUserAndAssetTypeQuery requests a user's wallet for an asset type.
type GetWalletByUserAndAssetTypeQuery struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	AssetType string `json:"asset_type" validate:"required"`
}

// ListWalletsQuery requests a filtered, paginated wallet list.
type ListWalletsQuery struct {
	UserID    *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	AssetType *string `json:"asset_type,omitempty"`
	Offset    int     `json:"offset" validate:"min=0"`
	Limit     int     `json:"limit" validate:"min=1,max=100"`
}

// ============================================
// Response DTOs
// ============================================

// WalletDTO is the API representation of a wallet.
type WalletDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AssetType string    `json:"asset_type"`
	OwnerRole string    `json:"owner_role"` // "USER" or "SYSTEM"
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletListDTO is the result of a paginated wallet list query.
type WalletListDTO struct {
	Wallets    []WalletDTO `json:"wallets"`
	TotalCount int         `json:"total_count"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}

// WalletCreatedDTO is the result of opening a wallet.
type WalletCreatedDTO struct {
	Wallet  WalletDTO `json:"wallet"`
	Message string    `json:"message,omitempty"`
}
