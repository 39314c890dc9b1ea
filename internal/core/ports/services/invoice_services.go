package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices. Returned invoices
// carry their presented status, so a PENDING invoice past its due date reads as OVERDUE.
type InvoiceReaderSvc interface {
	GetInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, companyID string, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice validates, computes totals, allocates the next invoice number and persists.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// UpdateInvoice applies header changes and, when items are supplied, replaces them and recomputes totals atomically.
	UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice and its items. Linked payments are kept.
	DeleteInvoice(ctx context.Context, companyID, invoiceID string) error
}

// InvoiceStatusSvc defines lifecycle operations for invoices
type InvoiceStatusSvc interface {
	// ChangeStatus moves an invoice along DRAFT -> PENDING -> {PAID | CANCELLED}.
	ChangeStatus(ctx context.Context, companyID, invoiceID string, target domain.InvoiceStatus, userID string) (*domain.Invoice, error)

	// MarkAsPaid settles a PENDING invoice in full.
	MarkAsPaid(ctx context.Context, companyID, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceStatusSvc
}
