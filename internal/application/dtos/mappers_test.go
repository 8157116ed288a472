package dtos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinayak20130/ledgervault/internal/domain/entities"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

func TestToUserDTO(t *testing.T) {
	user, err := entities.NewUser("test@example.com", "Test User", entities.RoleUser)
	require.NoError(t, err)

	dto := ToUserDTO(user)

	assert.Equal(t, user.ID().String(), dto.ID)
	assert.Equal(t, "test@example.com", dto.Email)
	assert.Equal(t, "Test User", dto.FullName)
	assert.Equal(t, "USER", dto.Role)
	assert.False(t, dto.CreatedAt.IsZero())
	assert.False(t, dto.UpdatedAt.IsZero())
}

func TestToUserDTO_SystemRole(t *testing.T) {
	user, err := entities.NewUser("treasury@example.com", "Treasury", entities.RoleSystem)
	require.NoError(t, err)

	dto := ToUserDTO(user)

	assert.Equal(t, "SYSTEM", dto.Role)
}

func TestToUserDTOList(t *testing.T) {
	user1, _ := entities.NewUser("user1@example.com", "User One", entities.RoleUser)
	user2, _ := entities.NewUser("user2@example.com", "User Two", entities.RoleUser)
	user3, _ := entities.NewUser("user3@example.com", "User Three", entities.RoleUser)

	users := []*entities.User{user1, user2, user3}

	dtos := ToUserDTOList(users)

	assert.Len(t, dtos, 3)
	assert.Equal(t, "user1@example.com", dtos[0].Email)
	assert.Equal(t, "user2@example.com", dtos[1].Email)
	assert.Equal(t, "user3@example.com", dtos[2].Email)
}

func TestToUserDTOList_Empty(t *testing.T) {
	var users []*entities.User

	dtos := ToUserDTOList(users)

	assert.Len(t, dtos, 0)
	assert.NotNil(t, dtos)
}

func TestToWalletDTO(t *testing.T) {
	userID := uuid.New()
	currency, err := valueobjects.NewCurrency("USD")
	require.NoError(t, err)

	wallet, err := entities.NewWallet(userID, currency, entities.RoleUser)
	require.NoError(t, err)

	dto := ToWalletDTO(wallet)

	assert.Equal(t, wallet.ID().String(), dto.ID)
	assert.Equal(t, userID.String(), dto.UserID)
	assert.Equal(t, "USD", dto.AssetType)
	assert.Equal(t, "USER", dto.OwnerRole)
	assert.Equal(t, "0.0000", dto.Balance)
	assert.False(t, dto.CreatedAt.IsZero())
}

func TestToWalletDTO_WithBalance(t *testing.T) {
	userID := uuid.New()
	currency, err := valueobjects.NewCurrency("USD")
	require.NoError(t, err)

	wallet, err := entities.NewWallet(userID, currency, entities.RoleUser)
	require.NoError(t, err)

	amount, err := valueobjects.NewMoney("100.00", currency)
	require.NoError(t, err)

	err = wallet.Credit(amount)
	require.NoError(t, err)

	dto := ToWalletDTO(wallet)

	assert.Contains(t, dto.Balance, "100.00")
}

func TestToWalletDTO_TreasuryWallet(t *testing.T) {
	systemID := uuid.New()
	currency, err := valueobjects.NewCurrency("GEM")
	require.NoError(t, err)

	wallet, err := entities.NewWallet(systemID, currency, entities.RoleSystem)
	require.NoError(t, err)

	dto := ToWalletDTO(wallet)

	assert.Equal(t, "GEM", dto.AssetType)
	assert.Equal(t, "SYSTEM", dto.OwnerRole)
}

func TestToWalletDTOList(t *testing.T) {
	userID := uuid.New()
	usd, _ := valueobjects.NewCurrency("USD")
	eur, _ := valueobjects.NewCurrency("EUR")

	wallet1, _ := entities.NewWallet(userID, usd, entities.RoleUser)
	wallet2, _ := entities.NewWallet(userID, eur, entities.RoleUser)

	wallets := []*entities.Wallet{wallet1, wallet2}

	dtos := ToWalletDTOList(wallets)

	assert.Len(t, dtos, 2)
	assert.Equal(t, "USD", dtos[0].AssetType)
	assert.Equal(t, "EUR", dtos[1].AssetType)
}

func TestToWalletDTOList_Empty(t *testing.T) {
	var wallets []*entities.Wallet

	dtos := ToWalletDTOList(wallets)

	assert.Len(t, dtos, 0)
	assert.NotNil(t, dtos)
}

func newTestMonetaryTransaction(t *testing.T, idempotencyKey string, txType entities.TransactionType) *entities.MonetaryTransaction {
	t.Helper()

	currency, err := valueobjects.NewCurrency("USD")
	require.NoError(t, err)

	amount, err := valueobjects.NewMoney("50.00", currency)
	require.NoError(t, err)

	tx, err := entities.NewMonetaryTransaction(
		idempotencyKey,
		txType,
		uuid.New(),
		uuid.New(),
		amount,
		"ref-123",
		map[string]interface{}{"source": "test"},
	)
	require.NoError(t, err)
	return tx
}

func TestToTransactionDTO(t *testing.T) {
	tx := newTestMonetaryTransaction(t, "idem-key-123", entities.TransactionTypeTopUp)

	dto := ToTransactionDTO(tx)

	assert.Equal(t, tx.ID().String(), dto.ID)
	assert.Equal(t, tx.SourceWalletID().String(), dto.SourceWalletID)
	assert.Equal(t, tx.DestinationWalletID().String(), dto.DestinationWalletID)
	assert.Equal(t, "idem-key-123", dto.IdempotencyKey)
	assert.Equal(t, "TOP_UP", dto.Type)
	assert.Equal(t, "PENDING", dto.Status)
	assert.Contains(t, dto.Amount, "50.00")
	assert.Equal(t, "USD", dto.AssetType)
	assert.Equal(t, "ref-123", dto.ReferenceID)
	assert.Equal(t, "test", dto.Metadata["source"])
	assert.Nil(t, dto.CompletedAt)
}

func TestToTransactionDTO_CompletedTransaction(t *testing.T) {
	tx := newTestMonetaryTransaction(t, "complete-key", entities.TransactionTypeBonus)

	err := tx.MarkCompleted()
	require.NoError(t, err)

	dto := ToTransactionDTO(tx)

	assert.Equal(t, "COMPLETED", dto.Status)
	assert.NotNil(t, dto.CompletedAt)
}

func TestToTransactionDTO_FailedTransaction(t *testing.T) {
	tx := newTestMonetaryTransaction(t, "fail-key", entities.TransactionTypePurchase)

	err := tx.MarkFailed("insufficient balance")
	require.NoError(t, err)

	dto := ToTransactionDTO(tx)

	assert.Equal(t, "FAILED", dto.Status)
	assert.Equal(t, "insufficient balance", dto.ErrorMessage)
}

func TestToTransactionDTOList(t *testing.T) {
	tx1 := newTestMonetaryTransaction(t, "key1", entities.TransactionTypeTopUp)
	tx2 := newTestMonetaryTransaction(t, "key2", entities.TransactionTypeBonus)
	tx3 := newTestMonetaryTransaction(t, "key3", entities.TransactionTypePurchase)

	transactions := []*entities.MonetaryTransaction{tx1, tx2, tx3}

	dtos := ToTransactionDTOList(transactions)

	assert.Len(t, dtos, 3)
	assert.Equal(t, "TOP_UP", dtos[0].Type)
	assert.Equal(t, "BONUS", dtos[1].Type)
	assert.Equal(t, "PURCHASE", dtos[2].Type)
}

func TestToTransactionDTOList_Empty(t *testing.T) {
	var transactions []*entities.MonetaryTransaction

	dtos := ToTransactionDTOList(transactions)

	assert.Len(t, dtos, 0)
	assert.NotNil(t, dtos)
}

func TestMapTransactionToDTO(t *testing.T) {
	tx := newTestMonetaryTransaction(t, "map-key", entities.TransactionTypeTopUp)

	dto := MapTransactionToDTO(tx)

	assert.NotNil(t, dto)
	assert.Equal(t, tx.ID().String(), dto.ID)
}

func TestAllTransactionTypes(t *testing.T) {
	types := []struct {
		txType   entities.TransactionType
		expected string
	}{
		{entities.TransactionTypeTopUp, "TOP_UP"},
		{entities.TransactionTypeBonus, "BONUS"},
		{entities.TransactionTypePurchase, "PURCHASE"},
	}

	for _, tt := range types {
		t.Run(tt.expected, func(t *testing.T) {
			tx := newTestMonetaryTransaction(t, "key-"+tt.expected, tt.txType)

			dto := ToTransactionDTO(tx)
			assert.Equal(t, tt.expected, dto.Type)
		})
	}
}

func TestToLedgerEntryDTO(t *testing.T) {
	currency, err := valueobjects.NewCurrency("USD")
	require.NoError(t, err)

	amount, err := valueobjects.NewMoney("25.00", currency)
	require.NoError(t, err)
	balanceAfter, err := valueobjects.NewMoney("75.00", currency)
	require.NoError(t, err)

	transactionID := uuid.New()
	walletID := uuid.New()

	entry, err := entities.NewLedgerEntry(transactionID, walletID, entities.EntryTypeCredit, amount, balanceAfter)
	require.NoError(t, err)

	dto := ToLedgerEntryDTO(entry)

	assert.Equal(t, entry.ID().String(), dto.ID)
	assert.Equal(t, transactionID.String(), dto.TransactionID)
	assert.Equal(t, walletID.String(), dto.WalletID)
	assert.Equal(t, "CREDIT", dto.EntryType)
	assert.Contains(t, dto.Amount, "25.00")
	assert.Contains(t, dto.BalanceAfter, "75.00")
}

func TestToLedgerEntryDTOList_Empty(t *testing.T) {
	var entries []*entities.LedgerEntry

	dtos := ToLedgerEntryDTOList(entries)

	assert.Len(t, dtos, 0)
	assert.NotNil(t, dtos)
}
