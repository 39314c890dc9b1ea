package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "DRAFT"
	StatusPending   InvoiceStatus = "PENDING"
	StatusPaid      InvoiceStatus = "PAID"
	StatusOverdue   InvoiceStatus = "OVERDUE" // derived at read time, never stored
	StatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known statuses.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransitionTo reports whether a stored status may move to target.
// DRAFT -> PENDING -> {PAID | CANCELLED}. OVERDUE is never a target.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPending
	case StatusPending, StatusOverdue:
		return target == StatusPaid || target == StatusCancelled
	default:
		return false
	}
}

// LineItem is one priced row of an invoice. Subtotal, TaxAmount and Total are derived.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	InvoiceID   string          `json:"invoiceID"`
	ProductID   *string         `json:"productID,omitempty"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // percent
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a billing document issued by a company to one of its clients.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	CompanyID     string          `json:"companyID"`
	ClientID      string          `json:"clientID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Status        InvoiceStatus   `json:"status"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	Terms         string          `json:"terms"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	AmountDue     decimal.Decimal `json:"amountDue"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	AuditFields
}

// EffectiveStatus is the status presented to callers: a PENDING invoice whose
// due date lies before the calendar day of now is reported as OVERDUE.
func (i Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == StatusPending && DateOnly(i.DueDate).Before(DateOnly(now)) {
		return StatusOverdue
	}
	return i.Status
}

// IsEditable reports whether header fields and items may still change.
func (i Invoice) IsEditable() bool {
	return i.Status == StatusDraft || i.Status == StatusPending
}

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	Status       InvoiceStatus // stored status; empty means any
	ClientID     string
	DueBefore    *time.Time // due_date < DueBefore
	DueOnOrAfter *time.Time // due_date >= DueOnOrAfter
}
