package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor units (cents). The tracker works in a
// single currency with two decimal places.
type Amount int64

// MaxAmount mirrors a DECIMAL(10,2) column: 99,999,999.99.
const MaxAmount Amount = 9_999_999_999

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount must have at most 2 decimal places")
	ErrTooLarge      = errors.New("amount exceeds the maximum of 99999999.99")
)

// Parse reads a decimal string such as "40", "40.5" or "40.50".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts d to minor units, rejecting values that would lose precision.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, ErrTooPrecise
	}
	if cents.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, ErrTooLarge
	}
	return Amount(cents.IntPart()), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Float64 is for presentation layers that need a native number (spreadsheets).
func (a Amount) Float64() float64 {
	return a.Decimal().InexactFloat64()
}

// String formats the amount with exactly two decimals, e.g. "60.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// MarshalJSON encodes the amount as a fixed two-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a JSON string ("12.50") or a JSON number (12.5).
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ErrInvalidAmount
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return ErrInvalidAmount
		}
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
