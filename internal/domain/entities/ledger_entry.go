// Package entities contains domain entities with identity and lifecycle.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// EntryType is the double-entry side of a ledger entry.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// IsValid checks if the entry type is one of DEBIT or CREDIT.
func (e EntryType) IsValid() bool {
	return e == EntryTypeDebit || e == EntryTypeCredit
}

// LedgerEntry is one half of a completed MonetaryTransaction's double-entry
// bookkeeping record: every transaction produces exactly one DEBIT entry
// against the source wallet and one CREDIT entry against the destination
// wallet, in equal amount (spec §3, §4.4). A wallet's running balance is the
// balanceAfter of its most recent ledger entry — the ledger is the source of
// truth, the wallet.balance column is a materialized cache of it.
//
// LedgerEntry has no mutator methods. Once constructed and persisted it is
// never updated or deleted (spec §7 LedgerImmutable); the only way to
// correct a mistake is to post an offsetting transaction.
type LedgerEntry struct {
	id            uuid.UUID
	transactionID uuid.UUID
	walletID      uuid.UUID
	entryType     EntryType
	amount        valueobjects.Money
	balanceAfter  valueobjects.Money
	createdAt     time.Time
}

// NewLedgerEntry creates a new ledger entry.
func NewLedgerEntry(
	transactionID, walletID uuid.UUID,
	entryType EntryType,
	amount, balanceAfter valueobjects.Money,
) (*LedgerEntry, error) {
	if !entryType.IsValid() {
		return nil, errors.ValidationError{Field: "entryType", Message: "entry type must be DEBIT or CREDIT"}
	}
	if !amount.IsPositive() {
		return nil, errors.NewBusinessRuleViolation(
			"INVALID_AMOUNT",
			"ledger entry amount must be positive",
			map[string]interface{}{"amount": amount.String()},
		)
	}
	if !amount.Currency().Equals(balanceAfter.Currency()) {
		return nil, valueobjects.ErrCurrencyMismatch
	}

	return &LedgerEntry{
		id:            uuid.New(),
		transactionID: transactionID,
		walletID:      walletID,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     time.Now(),
	}, nil
}

// ReconstructLedgerEntry hydrates a LedgerEntry from stored data.
func ReconstructLedgerEntry(
	id, transactionID, walletID uuid.UUID,
	entryType EntryType,
	amount, balanceAfter valueobjects.Money,
	createdAt time.Time,
) *LedgerEntry {
	return &LedgerEntry{
		id:            id,
		transactionID: transactionID,
		walletID:      walletID,
		entryType:     entryType,
		amount:        amount,
		balanceAfter:  balanceAfter,
		createdAt:     createdAt,
	}
}

func (l *LedgerEntry) ID() uuid.UUID                    { return l.id }
func (l *LedgerEntry) TransactionID() uuid.UUID         { return l.transactionID }
func (l *LedgerEntry) WalletID() uuid.UUID              { return l.walletID }
func (l *LedgerEntry) EntryType() EntryType             { return l.entryType }
func (l *LedgerEntry) Amount() valueobjects.Money        { return l.amount }
func (l *LedgerEntry) BalanceAfter() valueobjects.Money  { return l.balanceAfter }
func (l *LedgerEntry) CreatedAt() time.Time              { return l.createdAt }

// IsDebit returns true if this entry is the debit side of a transaction.
func (l *LedgerEntry) IsDebit() bool {
	return l.entryType == EntryTypeDebit
}

// IsCredit returns true if this entry is the credit side of a transaction.
func (l *LedgerEntry) IsCredit() bool {
	return l.entryType == EntryTypeCredit
}

// SignedAmount returns the (non-negative) amount together with the entry
// direction: true for CREDIT, false for DEBIT. Negating the DEBIT amounts,
// the entries of a transaction sum to zero (spec §8, zero-sum invariant).
func (l *LedgerEntry) SignedAmount() (valueobjects.Money, bool) {
	return l.amount, l.IsCredit()
}
