package utils

import (
	"github.com/SscSPs/invoicing_app/internal/utils/invoicing"
	"github.com/shopspring/decimal"
)

// FormatMoney renders a monetary amount with exactly invoicing.MoneyScale decimals.
// Example: 12.3 returns "12.30", 220 returns "220.00"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(invoicing.MoneyScale)
}

// FormatWithPrecision formats an amount rounded to precision places without trailing zeros.
// Quantities, unit prices and tax rates keep more places than money.
// Example: (2.500000, 6) returns "2.5", (1.23456, 3) returns "1.235"
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.Round(precision).String()
}

// HasMoneyScale reports whether amount has no more than invoicing.MoneyScale decimals.
func HasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(invoicing.MoneyScale))
}
