// Package moneyutils provides money normalization used throughout the
// extraction and audit pipeline.
package moneyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFallback is the value returned for empty or non-numeric input when
// no explicit fallback is supplied.
const DefaultFallback = "0.00"

var nonMoneyChars = regexp.MustCompile(`[^0-9.\-]`)

// Normalize strips everything except digits, '.' and '-' from raw and fixes
// the result to two decimal places. Empty or non-numeric input yields the
// fallback verbatim. Normalize never fails, and is idempotent over its own
// output.
func Normalize(raw, fallback string) string {
	cleaned := nonMoneyChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return fallback
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return fallback
	}
	return amount.StringFixed(2)
}

// NormalizeOrZero normalizes raw with the default "0.00" fallback.
func NormalizeOrZero(raw string) string {
	return Normalize(raw, DefaultFallback)
}

// Parse converts raw money text to a decimal, treating anything
// non-numeric as zero.
func Parse(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(NormalizeOrZero(raw))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Equal reports whether two raw money strings normalize to the same value.
func Equal(a, b string) bool {
	return NormalizeOrZero(a) == NormalizeOrZero(b)
}

// FormatDollars renders an amount as "$X.XX" for narrative output.
func FormatDollars(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// IsPositive reports whether raw parses to a value greater than zero.
func IsPositive(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	return Parse(raw).GreaterThan(decimal.Zero)
}
