package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/SscSPs/invoicing_app/internal/utils/invoicing"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one submitted line item. Numeric rules are enforced when
// totals are computed so that they surface as InvalidLineItem.
// When ProductID is set, missing description, unit price and tax rate are
// copied from the product.
type LineItemRequest struct {
	ProductID   *string          `json:"productId" validate:"omitempty,uuid"`
	Description string           `json:"description" validate:"required_without=ProductID,max=500"`
	Quantity    decimal.Decimal  `json:"quantity" swaggertype:"string"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" swaggertype:"string"`
	TaxRate     *decimal.Decimal `json:"taxRate" swaggertype:"string"`
}

// CreateInvoiceRequest defines the data needed to create a new invoice.
type CreateInvoiceRequest struct {
	ClientID      string               `json:"clientId" validate:"required,uuid"`
	Status        domain.InvoiceStatus `json:"status" validate:"omitempty,oneof=DRAFT PENDING PAID"`
	IssueDate     string               `json:"issueDate" validate:"required,datetime=2006-01-02"`
	DueDate       string               `json:"dueDate" validate:"required,datetime=2006-01-02"`
	PaymentMethod string               `json:"paymentMethod" validate:"max=50"`
	Notes         string               `json:"notes"`
	Terms         string               `json:"terms"`
	Items         []LineItemRequest    `json:"items" validate:"dive"`
}

// Validate checks the request in one pass, including dueDate >= issueDate.
func (r CreateInvoiceRequest) Validate() error {
	var extra []apperrors.Violation
	issue, errIssue := ParseDate(r.IssueDate)
	due, errDue := ParseDate(r.DueDate)
	if errIssue == nil && errDue == nil && due.Before(issue) {
		extra = append(extra, apperrors.Violation{Field: "dueDate", Message: "must not be before issueDate"})
	}
	return ValidateStruct(r, extra...)
}

// UpdateInvoiceRequest defines the data allowed for updating an invoice.
// A non-nil Items replaces every line item and triggers a full recomputation.
type UpdateInvoiceRequest struct {
	ClientID      *string           `json:"clientId" validate:"omitempty,uuid"`
	IssueDate     *string           `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string           `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string           `json:"paymentMethod" validate:"omitempty,max=50"`
	Notes         *string           `json:"notes"`
	Terms         *string           `json:"terms"`
	Items         []LineItemRequest `json:"items" validate:"omitempty,dive"`
}

// Validate checks the request in one pass.
func (r UpdateInvoiceRequest) Validate() error { return ValidateStruct(r) }

// UpdateInvoiceStatusRequest asks for a status transition.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" validate:"required,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
}

// Validate checks the request in one pass.
func (r UpdateInvoiceStatusRequest) Validate() error { return ValidateStruct(r) }

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	ID          string  `json:"id"`
	ProductID   *string `json:"productId"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unitPrice"`
	TaxRate     string  `json:"taxRate"`
	Subtotal    string  `json:"subtotal"`
	TaxAmount   string  `json:"taxAmount"`
	Total       string  `json:"total"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	ID            string               `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	ClientID      string               `json:"clientId"`
	Status        domain.InvoiceStatus `json:"status"`
	IssueDate     string               `json:"issueDate"`
	DueDate       string               `json:"dueDate"`
	PaymentMethod string               `json:"paymentMethod"`
	Notes         string               `json:"notes"`
	Terms         string               `json:"terms"`
	Items         []LineItemResponse   `json:"items,omitempty"`
	Subtotal      string               `json:"subtotal"`
	TaxAmount     string               `json:"taxAmount"`
	Total         string               `json:"total"`
	AmountPaid    string               `json:"amountPaid"`
	AmountDue     string               `json:"amountDue"`
	PaidAt        *time.Time           `json:"paidAt"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO
func ToLineItemResponse(li *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:          li.LineItemID,
		ProductID:   li.ProductID,
		Description: li.Description,
		Quantity:    utils.FormatWithPrecision(li.Quantity, invoicing.QuantityScale),
		UnitPrice:   utils.FormatWithPrecision(li.UnitPrice, invoicing.UnitPriceScale),
		TaxRate:     utils.FormatWithPrecision(li.TaxRate, invoicing.TaxRateScale),
		Subtotal:    money(li.Subtotal),
		TaxAmount:   money(li.TaxAmount),
		Total:       money(li.Total),
	}
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
// The status is rendered as stored on inv; services present derived statuses.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = ToLineItemResponse(&inv.Items[i])
	}
	return InvoiceResponse{
		ID:            inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		Status:        inv.Status,
		IssueDate:     FormatDate(inv.IssueDate),
		DueDate:       FormatDate(inv.DueDate),
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		Items:         items,
		Subtotal:      money(inv.Subtotal),
		TaxAmount:     money(inv.TaxAmount),
		Total:         money(inv.Total),
		AmountPaid:    money(inv.AmountPaid),
		AmountDue:     money(inv.AmountDue),
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		CreatedBy:     inv.CreatedBy,
		LastUpdatedAt: inv.LastUpdatedAt,
		LastUpdatedBy: inv.LastUpdatedBy,
	}
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Status    string  `form:"status" validate:"omitempty,oneof=DRAFT PENDING PAID OVERDUE CANCELLED"`
	ClientID  string  `form:"clientId" validate:"omitempty,uuid"`
}

// Validate checks the query in one pass.
func (p ListInvoicesParams) Validate() error { return ValidateStruct(p) }

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListInvoicesResponse converts a page of domain invoices.
func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return ListInvoicesResponse{Invoices: res, NextToken: nextToken}
}
