package invoicing

import (
	"fmt"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money amounts are rounded to.
const MoneyScale int32 = 2

// Storage scales of line item inputs. Values with more places are rejected
// rather than rounded so stored items recompute to the same totals.
const (
	QuantityScale  int32 = 6
	UnitPriceScale int32 = 6
	TaxRateScale   int32 = 3
)

var hundred = decimal.NewFromInt(100)

// Totals holds the invoice-level amounts derived from its line items.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// RoundMoney rounds half away from zero to MoneyScale places. For the
// non-negative amounts an invoice carries this is standard half-up rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// WithinScale reports whether d has no more than scale decimal places.
func WithinScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

func scaleMessage(scale int32) string {
	return fmt.Sprintf("must have at most %d decimal places", scale)
}

// ValidateLineItems checks every item and returns a single ValidationError of
// kind ErrInvalidLineItem listing all violations, or nil.
func ValidateLineItems(items []domain.LineItem) error {
	var violations []apperrors.Violation
	if len(items) == 0 {
		violations = append(violations, apperrors.Violation{Field: "items", Message: "at least one line item is required"})
	}
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case item.Quantity.LessThanOrEqual(decimal.Zero):
			violations = append(violations, apperrors.Violation{Field: field + ".quantity", Message: "must be greater than 0"})
		case !WithinScale(item.Quantity, QuantityScale):
			violations = append(violations, apperrors.Violation{Field: field + ".quantity", Message: scaleMessage(QuantityScale)})
		}
		switch {
		case item.UnitPrice.IsNegative():
			violations = append(violations, apperrors.Violation{Field: field + ".unitPrice", Message: "must not be negative"})
		case !WithinScale(item.UnitPrice, UnitPriceScale):
			violations = append(violations, apperrors.Violation{Field: field + ".unitPrice", Message: scaleMessage(UnitPriceScale)})
		}
		switch {
		case item.TaxRate.IsNegative():
			violations = append(violations, apperrors.Violation{Field: field + ".taxRate", Message: "must not be negative"})
		case !WithinScale(item.TaxRate, TaxRateScale):
			violations = append(violations, apperrors.Violation{Field: field + ".taxRate", Message: scaleMessage(TaxRateScale)})
		}
	}
	if len(violations) > 0 {
		return apperrors.NewValidationError(apperrors.ErrInvalidLineItem, violations...)
	}
	return nil
}

// CalculateLineItem fills in the derived amounts of a single item.
// The subtotal is rounded first and the tax is taken from the rounded subtotal.
func CalculateLineItem(item domain.LineItem) domain.LineItem {
	item.Subtotal = RoundMoney(item.Quantity.Mul(item.UnitPrice))
	item.TaxAmount = RoundMoney(item.Subtotal.Mul(item.TaxRate).Div(hundred))
	item.Total = item.Subtotal.Add(item.TaxAmount)
	return item
}

// CalculateTotals validates items and returns a fresh copy with derived amounts
// and positions set, together with the invoice aggregates. Aggregates are sums
// of the already rounded item values. The input slice is never modified.
func CalculateTotals(items []domain.LineItem) ([]domain.LineItem, Totals, error) {
	if err := ValidateLineItems(items); err != nil {
		return nil, Totals{}, err
	}

	out := make([]domain.LineItem, len(items))
	totals := Totals{Subtotal: decimal.Zero, TaxAmount: decimal.Zero}
	for i, item := range items {
		calculated := CalculateLineItem(item)
		calculated.Position = i + 1
		out[i] = calculated
		totals.Subtotal = totals.Subtotal.Add(calculated.Subtotal)
		totals.TaxAmount = totals.TaxAmount.Add(calculated.TaxAmount)
	}
	totals.Total = totals.Subtotal.Add(totals.TaxAmount)
	return out, totals, nil
}

// ApplyTotals recomputes inv's items and money fields from scratch against the
// given amount paid. amountDue = total - amountPaid always holds afterwards.
func ApplyTotals(inv *domain.Invoice, amountPaid decimal.Decimal) error {
	items, totals, err := CalculateTotals(inv.Items)
	if err != nil {
		return err
	}
	inv.Items = items
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.AmountPaid = amountPaid
	inv.AmountDue = totals.Total.Sub(amountPaid)
	return nil
}

// ApplyPaid reconciles money fields when an invoice is settled in full.
func ApplyPaid(inv *domain.Invoice) {
	inv.AmountPaid = inv.Total
	inv.AmountDue = decimal.Zero
}
