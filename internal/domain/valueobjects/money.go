// Package valueobjects - Money is the fixed-point monetary amount used throughout
// the ledger: every wallet balance, transaction amount, and ledger entry amount
// is a Money value.
package valueobjects

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with its asset type (currency).
// Backed by shopspring/decimal for exact fixed-point arithmetic — no
// floating point ever touches a balance.
//
// Scale is fixed at 4 fractional digits with up to 18 total digits, matching
// the NUMERIC(18,4) column type used for every monetary column.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

const (
	// Scale is the number of fractional digits every Money value carries.
	Scale = 4
	// MaxTotalDigits is the total digit budget (integer + fractional part).
	MaxTotalDigits = 18
)

var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrNonPositiveAmount  = errors.New("amount must be strictly positive")
	ErrCurrencyMismatch   = errors.New("cannot operate on different asset types")
	ErrInsufficientAmount = errors.New("insufficient amount")
	ErrInvalidAmount      = errors.New("invalid amount format")
	ErrPrecisionExceeded  = errors.New("amount exceeds the 18-digit, 4-fractional-digit precision budget")
)

// NewMoney creates a Money instance from a decimal string (e.g. "100.5000").
// Rejects negative amounts and anything that doesn't fit the fixed-point budget.
func NewMoney(amountStr string, currency Currency) (Money, error) {
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amountStr)
	}
	return newMoney(amount, currency)
}

// NewMoneyFromInt creates Money from a whole-unit integer amount.
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return newMoney(decimal.NewFromInt(amount), currency)
}

// NewMoneyFromDecimal wraps an already-computed decimal.Decimal as Money.
// Used by the storage layer when scanning a NUMERIC(18,4) column.
func NewMoneyFromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	return newMoney(amount, currency)
}

func newMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	rounded := amount.Round(Scale)
	if !rounded.Equal(amount) {
		return Money{}, fmt.Errorf("%w: more than %d fractional digits", ErrPrecisionExceeded, Scale)
	}
	if digitCount(rounded) > MaxTotalDigits {
		return Money{}, ErrPrecisionExceeded
	}
	return Money{amount: rounded, currency: currency}, nil
}

func digitCount(d decimal.Decimal) int {
	coeff := d.Coefficient()
	s := coeff.Abs(coeff).String()
	if s == "0" {
		return 1
	}
	return len(s)
}

// Zero creates a zero money amount for the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Currency returns the asset type of this money.
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String returns "1234.5600 GOLD_COINS".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(Scale), m.currency.Code())
}

// StringFixed returns the amount alone, fixed at 4 decimal places — the
// representation persisted to and read from NUMERIC(18,4) columns.
func (m Money) StringFixed() string {
	return m.amount.StringFixed(Scale)
}

// MustBePositive enforces the "amount is strictly positive" request-contract
// rule from the external interface (validated upstream of the core, but kept
// here so the value object can self-check in tests and bootstrap code).
func (m Money) MustBePositive() error {
	if !m.amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// Add returns a new Money with the sum of two amounts. Immutable: returns a
// new instance, never mutates the receiver.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	return newMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract returns a new Money with the difference. Returns
// ErrInsufficientAmount if the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	diff := m.amount.Sub(other.amount)
	if diff.IsNegative() {
		return Money{}, ErrInsufficientAmount
	}
	return newMoney(diff, m.currency)
}

// SubtractAllowNegative returns the difference without a non-negative check.
// Used for treasury wallets, which are explicitly allowed to go negative
// (they mint supply).
func (m Money) SubtractAllowNegative(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	diff := m.amount.Sub(other.amount)
	rounded := diff.Round(Scale)
	if digitCount(rounded) > MaxTotalDigits {
		return Money{}, ErrPrecisionExceeded
	}
	return Money{amount: rounded, currency: m.currency}, nil
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// GreaterThanOrEqual checks if this money is >= another.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) >= 0, nil
}

// LessThan checks if this money is less than another.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) < 0, nil
}

// Equals checks if two money values are equal (amount and currency).
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.amount.Cmp(other.amount) == 0
}
