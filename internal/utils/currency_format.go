package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders a money value with two decimal places for use in
// derived ledger descriptions and reminder notes.
// Example: 1250 returns "1250.00", 12.345 returns "12.35".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatQuantity renders an inventory quantity without trailing zeros.
// Example: 5.000 returns "5", 2.50 returns "2.5".
func FormatQuantity(qty decimal.Decimal) string {
	return qty.String()
}
