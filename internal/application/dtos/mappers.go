// Package dtos - Mappers convert domain entities into DTOs.
//
// SOLID Principles:
// - SRP: a mapper is responsible only for conversion
// - OCP: new mappers are added without touching existing ones
//
// Pattern: Mapper/Converter — keeps the domain representation separate from
// the API representation.
package dtos

import (
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
)

// ============================================
// User Mappers
// ============================================

func ToUserDTO(user *entities.User) UserDTO {
	return UserDTO{
		ID:        user.ID().String(),
		Email:     user.Email(),
		FullName:  user.FullName(),
		Role:      string(user.Role()),
		CreatedAt: user.CreatedAt(),
		UpdatedAt: user.UpdatedAt(),
	}
}

func ToUserDTOList(users []*entities.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, user := range users {
		result[i] = ToUserDTO(user)
	}
	return result
}

// ============================================
// Wallet Mappers
// ============================================

func ToWalletDTO(wallet *entities.Wallet) WalletDTO {
	return WalletDTO{
		ID:        wallet.ID().String(),
		UserID:    wallet.UserID().String(),
		AssetType: wallet.AssetType().Code(),
		OwnerRole: string(wallet.OwnerRole()),
		Balance:   wallet.Balance().StringFixed(),
		CreatedAt: wallet.CreatedAt(),
		UpdatedAt: wallet.UpdatedAt(),
	}
}

func ToWalletDTOList(wallets []*entities.Wallet) []WalletDTO {
	result := make([]WalletDTO, len(wallets))
	for i, wallet := range wallets {
		result[i] = ToWalletDTO(wallet)
	}
	return result
}

// ============================================
// Transaction Mappers
// ============================================

func ToTransactionDTO(tx *entities.MonetaryTransaction) TransactionDTO {
	dto := TransactionDTO{
		ID:                  tx.ID().String(),
		IdempotencyKey:      tx.IdempotencyKey(),
		Type:                string(tx.Type()),
		Status:              string(tx.Status()),
		SourceWalletID:      tx.SourceWalletID().String(),
		DestinationWalletID: tx.DestinationWalletID().String(),
		Amount:              tx.Amount().StringFixed(),
		AssetType:           tx.Amount().Currency().Code(),
		ReferenceID:         tx.ReferenceID(),
		Metadata:            tx.Metadata(),
		ErrorMessage:        tx.ErrorMessage(),
		CreatedAt:           tx.CreatedAt(),
		UpdatedAt:           tx.UpdatedAt(),
	}

	if completedAt := tx.CompletedAt(); completedAt != nil {
		dto.CompletedAt = completedAt
	}

	return dto
}

func ToTransactionDTOList(transactions []*entities.MonetaryTransaction) []TransactionDTO {
	result := make([]TransactionDTO, len(transactions))
	for i, tx := range transactions {
		result[i] = ToTransactionDTO(tx)
	}
	return result
}

// MapTransactionToDTO is an alias for ToTransactionDTO, kept for use cases
// that want a pointer result.
func MapTransactionToDTO(tx *entities.MonetaryTransaction) *TransactionDTO {
	dto := ToTransactionDTO(tx)
	return &dto
}

// ============================================
// Ledger Entry Mappers
// ============================================

func ToLedgerEntryDTO(entry *entities.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:            entry.ID().String(),
		TransactionID: entry.TransactionID().String(),
		WalletID:      entry.WalletID().String(),
		EntryType:     string(entry.EntryType()),
		Amount:        entry.Amount().StringFixed(),
		BalanceAfter:  entry.BalanceAfter().StringFixed(),
		CreatedAt:     entry.CreatedAt(),
	}
}

func ToLedgerEntryDTOList(entries []*entities.LedgerEntry) []LedgerEntryDTO {
	result := make([]LedgerEntryDTO, len(entries))
	for i, entry := range entries {
		result[i] = ToLedgerEntryDTO(entry)
	}
	return result
}
