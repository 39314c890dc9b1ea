package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of payments ordered newest first.
	ListPayments(ctx context.Context, companyID string, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error)

	// SumPaymentsForInvoice returns the total of all payments recorded against the invoice.
	SumPaymentsForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	SavePayment(ctx context.Context, payment domain.Payment) error
	DeletePayment(ctx context.Context, companyID, paymentID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
