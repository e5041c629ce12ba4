package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered monetary amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and any
// decimal scale. Zero is a legal amount; negative values are rejected.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> 0, nil
//	ParseAmount("-1")    -> ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatRand renders an amount as rand currency with two decimals: R1234.56.
func FormatRand(d decimal.Decimal) string {
	return "R" + d.StringFixed(2)
}
