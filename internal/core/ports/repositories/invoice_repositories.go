package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items ordered by position.
	FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a page of invoices (without items) ordered newest first.
	// It returns the invoices, a token for the next page, and an error.
	ListInvoices(ctx context.Context, companyID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceNumberReader exposes the existing invoice numbers of a company for sequence generation.
type InvoiceNumberReader interface {
	// FindLatestInvoiceNumber returns the highest invoice number (string order)
	// starting with prefix, or "" when none exists. Creation time is not used:
	// it is taken before the number is allocated and can disagree with it.
	FindLatestInvoiceNumber(ctx context.Context, companyID, prefix string) (string, error)

	// ListInvoiceNumbers returns every invoice number of the company starting with prefix.
	ListInvoiceNumbers(ctx context.Context, companyID, prefix string) ([]string, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice header and its line items. A clash on
	// (company, invoice number) is reported as apperrors.ErrDuplicateIdentifier.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice updates header and money fields. Items are left untouched.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// ReplaceInvoiceItems deletes every item of the invoice and inserts items.
	ReplaceInvoiceItems(ctx context.Context, invoiceID string, items []domain.LineItem) error

	// DeleteInvoice removes an invoice and its items.
	DeleteInvoice(ctx context.Context, companyID, invoiceID string) error
}

// InvoiceLocker serialises concurrent writers of one invoice.
type InvoiceLocker interface {
	// LockInvoice loads the invoice with its items and holds a row lock until
	// the surrounding transaction ends. Only meaningful inside RunInTx.
	LockInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceNumberReader
	InvoiceWriter
	InvoiceLocker
}
