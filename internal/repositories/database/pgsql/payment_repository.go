package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `payment_id, company_id, invoice_id, client_id, amount, method, reference, notes, paid_at,
	` + mapping.AuditColumns

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(db Querier) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	args := append([]any{
		m.PaymentID, m.CompanyID, m.InvoiceID, m.ClientID, m.Amount, m.Method, m.Reference, m.Notes, m.PaidAt,
	}, mapping.AuditInsertArgs(m.AuditFields)...)
	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		switch {
		case isForeignKeyViolation(err, "payments_invoice_id_fkey"):
			return apperrors.ErrInvoiceNotFound
		case isForeignKeyViolation(err, "payments_client_id_fkey"):
			return apperrors.ErrClientNotFound
		}
		return apperrors.NewAppError(500, "failed to save payment "+m.PaymentID, err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 AND company_id = $2;`
	rows, _ := r.db.Query(ctx, query, paymentID, companyID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, lookupError(err, apperrors.ErrPaymentNotFound, "failed to find payment "+paymentID)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) ListPayments(ctx context.Context, companyID string, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE company_id = $1`
	args := []any{companyID}
	if filter.InvoiceID != "" {
		args = append(args, filter.InvoiceID)
		query += " AND invoice_id = $" + strconv.Itoa(len(args))
	}
	if filter.ClientID != "" {
		args = append(args, filter.ClientID)
		query += " AND client_id = $" + strconv.Itoa(len(args))
	}
	query, args, err := appendKeyset(query, args, "payment_id", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list payments", err)
	}
	ms, next := trimPage(ms, limit, func(m models.Payment) (time.Time, string) { return m.CreatedAt, m.PaymentID })

	payments := make([]domain.Payment, len(ms))
	for i, m := range ms {
		payments[i] = mapping.ToDomainPayment(m)
	}
	return payments, next, nil
}

func (r *PgxPaymentRepository) SumPaymentsForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1;`, invoiceID).Scan(&sum)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum payments for invoice "+invoiceID, err)
	}
	return sum, nil
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, companyID, paymentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1 AND company_id = $2;`, paymentID, companyID)
	if err != nil {
		return lookupError(err, apperrors.ErrPaymentNotFound, "failed to delete payment "+paymentID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}
	return nil
}
