// Package valueobjects contains immutable value objects that represent domain concepts
// without identity. They are compared by their values, not by identity.
package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

// Currency represents an asset type code (e.g. GOLD_COINS, DIAMONDS, USD_CENTS).
// It's a value object - immutable and validated on creation.
//
// Unlike a fiat/crypto ISO-4217 whitelist, asset type codes are operator-defined
// and backed by the asset_types table; the value object only enforces the wire
// format (short, stable, uppercase token), not a fixed membership list.
type Currency struct {
	code string
}

var codePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,31}$`)

// ErrInvalidCurrency is returned when a code fails the format check.
var ErrInvalidCurrency = errors.New("invalid asset type code")

// NewCurrency creates a new Currency value object with format validation.
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return Currency{}, ErrInvalidCurrency
	}
	return Currency{code: code}, nil
}

// MustNewCurrency panics on invalid input; use only for static asset codes.
func MustNewCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the asset type code.
func (c Currency) Code() string {
	return c.code
}

// Equals checks if two currencies are the same asset type.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return c.code
}

// IsZero checks if this is an uninitialized currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}
