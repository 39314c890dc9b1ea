package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payments
type PaymentReaderSvc interface {
	GetPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, companyID string, params dto.ListPaymentsParams) ([]domain.Payment, *string, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// RecordPayment stores a payment and, when it targets an invoice, recomputes the invoice's amount paid and due.
	RecordPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error)

	// DeletePayment removes a payment and recomputes the linked invoice.
	DeletePayment(ctx context.Context, companyID, paymentID string, userID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
