package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records money received. Either InvoiceID or ClientID must be set.
type CreatePaymentRequest struct {
	InvoiceID *string         `json:"invoiceId" validate:"omitempty,uuid"`
	ClientID  *string         `json:"clientId" validate:"omitempty,uuid"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" validate:"gt=0"`
	Method    string          `json:"method" validate:"max=50"`
	PaidAt    *string         `json:"paidAt" validate:"omitempty,datetime=2006-01-02"`
	Reference string          `json:"reference" validate:"max=100"`
	Notes     string          `json:"notes"`
}

// Validate checks the request in one pass.
func (r CreatePaymentRequest) Validate() error {
	var extra []apperrors.Violation
	if r.InvoiceID == nil && r.ClientID == nil {
		extra = append(extra, apperrors.Violation{Field: "clientId", Message: "is required when invoiceId is absent"})
	}
	if !utils.HasMoneyScale(r.Amount) {
		extra = append(extra, apperrors.Violation{Field: "amount", Message: "must have at most 2 decimal places"})
	}
	return ValidateStruct(r, extra...)
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	ID            string    `json:"id"`
	InvoiceID     *string   `json:"invoiceId"`
	ClientID      *string   `json:"clientId"`
	Amount        string    `json:"amount"`
	Method        string    `json:"method"`
	Reference     string    `json:"reference"`
	Notes         string    `json:"notes"`
	PaidAt        string    `json:"paidAt"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.PaymentID,
		InvoiceID:     p.InvoiceID,
		ClientID:      p.ClientID,
		Amount:        money(p.Amount),
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		PaidAt:        FormatDate(p.PaidAt),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	InvoiceID string  `form:"invoiceId" validate:"omitempty,uuid"`
	ClientID  string  `form:"clientId" validate:"omitempty,uuid"`
}

// Validate checks the query in one pass.
func (p ListPaymentsParams) Validate() error { return ValidateStruct(p) }

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListPaymentsResponse converts a page of domain payments.
func ToListPaymentsResponse(payments []domain.Payment, nextToken *string) ListPaymentsResponse {
	res := make([]PaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToPaymentResponse(&payments[i])
	}
	return ListPaymentsResponse{Payments: res, NextToken: nextToken}
}
