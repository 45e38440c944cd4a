package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"'", "",
	"INR", "",
	"RS.", "",
	"RS", "",
	"₹", "",
)

// ParseAmount coerces a statement cell to a decimal. Thousands separators,
// blanks and rupee marks are stripped; anything that still fails to parse,
// including an empty cell, yields zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := amountNoise.Replace(strings.ToUpper(strings.TrimSpace(raw)))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
