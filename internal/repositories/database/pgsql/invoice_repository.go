package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const (
	invoiceColumns = `invoice_id, company_id, client_id, invoice_number, status, issue_date, due_date,
	payment_method, notes, terms, subtotal, tax_amount, total, amount_paid, amount_due, paid_at,
	` + mapping.AuditColumns

	invoiceItemColumns = `invoice_item_id, invoice_id, product_id, position, description,
	quantity, unit_price, tax_rate, subtotal, tax_amount, total`

	// invoiceNumberConstraint is the UNIQUE (company_id, invoice_number) constraint.
	invoiceNumberConstraint = "invoices_company_number_key"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and their line items.
func newPgxInvoiceRepository(db Querier) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

// SaveInvoice inserts the header and queues every item in one batch. Callers
// run it inside RunInTx so a failed item insert leaves no header behind.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	args := append([]any{
		m.InvoiceID, m.CompanyID, m.ClientID, m.InvoiceNumber, m.Status, m.IssueDate, m.DueDate,
		m.PaymentMethod, m.Notes, m.Terms, m.Subtotal, m.TaxAmount, m.Total, m.AmountPaid, m.AmountDue, m.PaidAt,
	}, mapping.AuditInsertArgs(m.AuditFields)...)
	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err, invoiceNumberConstraint):
			return apperrors.NewAppError(409, "invoice number "+m.InvoiceNumber+" already taken", apperrors.ErrDuplicateIdentifier)
		case isForeignKeyViolation(err, "invoices_client_id_fkey"):
			return apperrors.ErrClientNotFound
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	return r.insertItems(ctx, invoice.InvoiceID, invoice.Items)
}

func (r *PgxInvoiceRepository) insertItems(ctx context.Context, invoiceID string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO invoice_items (` + invoiceItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		it := mapping.ToModelInvoiceItem(item)
		batch.Queue(query,
			it.InvoiceItemID, it.InvoiceID, it.ProductID, it.Position, it.Description,
			it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal, it.TaxAmount, it.Total,
		)
	}

	// Close reports the first failing statement of the batch.
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		if isForeignKeyViolation(err, "invoice_items_product_id_fkey") {
			return apperrors.ErrProductNotFound
		}
		return apperrors.NewAppError(500, "failed to insert items for invoice "+invoiceID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, companyID, invoiceID, "")
}

// LockInvoice takes a row lock on the invoice header until the surrounding
// transaction ends. Concurrent writers of the same invoice queue up behind it.
func (r *PgxInvoiceRepository) LockInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, companyID, invoiceID, " FOR UPDATE")
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, companyID, invoiceID, lockClause string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND company_id = $2` + lockClause + `;`
	rows, _ := r.db.Query(ctx, query, invoiceID, companyID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		return nil, lookupError(err, apperrors.ErrInvoiceNotFound, "failed to find invoice "+invoiceID)
	}

	itemRows, _ := r.db.Query(ctx, `SELECT `+invoiceItemColumns+` FROM invoice_items WHERE invoice_id = $1 ORDER BY position;`, invoiceID)
	items, err := pgx.CollectRows(itemRows, pgx.RowToStructByName[models.InvoiceItem])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load items for invoice "+invoiceID, err)
	}

	invoice := mapping.ToDomainInvoice(m, items)
	if invoice.Items == nil {
		invoice.Items = []domain.LineItem{}
	}
	return &invoice, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, companyID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += " AND client_id = $" + strconv.Itoa(len(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		query += " AND due_date < $" + strconv.Itoa(len(args))
	}
	if filter.DueOnOrAfter != nil {
		args = append(args, *filter.DueOnOrAfter)
		query += " AND due_date >= $" + strconv.Itoa(len(args))
	}
	query, args, err := appendKeyset(query, args, "invoice_id", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Invoice])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	ms, next := trimPage(ms, limit, func(m models.Invoice) (time.Time, string) { return m.CreatedAt, m.InvoiceID })

	invoices := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		invoices[i] = mapping.ToDomainInvoice(m, nil)
	}
	return invoices, next, nil
}

func (r *PgxInvoiceRepository) FindLatestInvoiceNumber(ctx context.Context, companyID, prefix string) (string, error) {
	query := `
		SELECT invoice_number FROM invoices
		WHERE company_id = $1 AND starts_with(invoice_number, $2)
		ORDER BY invoice_number DESC
		LIMIT 1;
	`
	var number string
	err := r.db.QueryRow(ctx, query, companyID, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.NewAppError(500, "failed to find latest invoice number", err)
	}
	return number, nil
}

func (r *PgxInvoiceRepository) ListInvoiceNumbers(ctx context.Context, companyID, prefix string) ([]string, error) {
	rows, _ := r.db.Query(ctx, `SELECT invoice_number FROM invoices WHERE company_id = $1 AND starts_with(invoice_number, $2);`, companyID, prefix)
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list invoice numbers", err)
	}
	return numbers, nil
}

// UpdateInvoice writes header and money fields. The invoice number is never rewritten.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET client_id = $3, status = $4, issue_date = $5, due_date = $6, payment_method = $7, notes = $8, terms = $9,
		    subtotal = $10, tax_amount = $11, total = $12, amount_paid = $13, amount_due = $14, paid_at = $15,
		    last_updated_at = $16, last_updated_by = $17
		WHERE invoice_id = $1 AND company_id = $2;
	`
	args := append([]any{
		m.InvoiceID, m.CompanyID, m.ClientID, m.Status, m.IssueDate, m.DueDate, m.PaymentMethod, m.Notes, m.Terms,
		m.Subtotal, m.TaxAmount, m.Total, m.AmountPaid, m.AmountDue, m.PaidAt,
	}, mapping.AuditUpdateArgs(m.AuditFields)...)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err, "invoices_client_id_fkey") {
			return apperrors.ErrClientNotFound
		}
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvoiceNotFound
	}
	return nil
}

// ReplaceInvoiceItems deletes every item of the invoice and inserts items in their place.
func (r *PgxInvoiceRepository) ReplaceInvoiceItems(ctx context.Context, invoiceID string, items []domain.LineItem) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return apperrors.NewAppError(500, "failed to delete items of invoice "+invoiceID, err)
	}
	return r.insertItems(ctx, invoiceID, items)
}

// DeleteInvoice removes the invoice. Items cascade; payments keep existing with invoice_id cleared.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND company_id = $2;`, invoiceID, companyID)
	if err != nil {
		return lookupError(err, apperrors.ErrInvoiceNotFound, "failed to delete invoice "+invoiceID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvoiceNotFound
	}
	return nil
}
