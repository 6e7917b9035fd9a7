package money

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places balances and prices are stored with.
const Scale = 2

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// Parse reads a decimal amount such as "25", "25.5" or "-3.10".
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Exponent() < -Scale && !value.Equal(value.Truncate(Scale)) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return value, nil
}

// ParseJSON reads an amount from a raw JSON value. Only JSON numbers are accepted.
func ParseJSON(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, `"`) {
		return decimal.Zero, ErrInvalidAmount
	}
	return Parse(trimmed)
}

// Format renders an amount with exactly Scale decimal places.
func Format(value decimal.Decimal) string {
	return value.StringFixed(Scale)
}

// Number renders an amount as a JSON number with Scale decimal places.
func Number(value decimal.Decimal) json.Number {
	return json.Number(Format(value))
}
