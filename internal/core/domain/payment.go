package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received by a company, optionally applied to one invoice.
type Payment struct {
	PaymentID string          `json:"paymentID"`
	CompanyID string          `json:"companyID"`
	InvoiceID *string         `json:"invoiceID,omitempty"` // nil for a direct client payment
	ClientID  *string         `json:"clientID,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Notes     string          `json:"notes"`
	PaidAt    time.Time       `json:"paidAt"`
	AuditFields
}

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	InvoiceID string
	ClientID  string
}
