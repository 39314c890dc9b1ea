package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	CompanyID string          `db:"company_id"`
	InvoiceID *string         `db:"invoice_id"` // Nullable
	ClientID  *string         `db:"client_id"`  // Nullable
	Amount    decimal.Decimal `db:"amount"`
	Method    string          `db:"method"`
	Reference string          `db:"reference"`
	Notes     string          `db:"notes"`
	PaidAt    time.Time       `db:"paid_at"`
	AuditFields
}
