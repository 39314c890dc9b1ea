package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the CHECK constraint on invoices.status.
type InvoiceStatus string

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	CompanyID     string          `db:"company_id"`
	ClientID      string          `db:"client_id"`
	InvoiceNumber string          `db:"invoice_number"`
	Status        InvoiceStatus   `db:"status"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	Terms         string          `db:"terms"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
	AmountPaid    decimal.Decimal `db:"amount_paid"`
	AmountDue     decimal.Decimal `db:"amount_due"`
	PaidAt        *time.Time      `db:"paid_at"` // Nullable
	AuditFields
}

// InvoiceItem is a row of the invoice_items table.
type InvoiceItem struct {
	InvoiceItemID string          `db:"invoice_item_id"`
	InvoiceID     string          `db:"invoice_id"`
	ProductID     *string         `db:"product_id"` // Nullable, set to NULL when the product is deleted
	Position      int             `db:"position"`
	Description   string          `db:"description"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
}
