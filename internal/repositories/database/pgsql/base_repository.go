package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// can run either standalone or bound to a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db Querier
}

// PgxTxRunner runs units of work in a single database transaction.
type PgxTxRunner struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TxRunner = (*PgxTxRunner)(nil)

// RunInTx begins a transaction, hands fn repositories bound to it and commits
// when fn succeeds. Any error rolls the whole transaction back.
func (r *PgxTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Ignored after a successful commit.
	defer func() { _ = tx.Rollback(ctx) }()

	base := BaseRepository{db: tx}
	repos := portsrepo.TxRepositories{
		Clients:  &PgxClientRepository{BaseRepository: base},
		Products: &PgxProductRepository{BaseRepository: base},
		Invoices: &PgxInvoiceRepository{BaseRepository: base},
		Payments: &PgxPaymentRepository{BaseRepository: base},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// pgErrorCode returns the SQLSTATE and constraint name of a Postgres error, if err is one.
func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation reports whether err is a unique violation of constraint.
// An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == pgUniqueViolation && (constraint == "" || name == constraint)
}

// isForeignKeyViolation reports whether err is a foreign key violation of constraint.
// An empty constraint matches any foreign key violation.
func isForeignKeyViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == pgForeignKeyViolation && (constraint == "" || name == constraint)
}

// lookupError translates a single-row lookup failure. Missing rows and ids
// that are not valid UUIDs both mean the resource does not exist.
func lookupError(err error, notFound error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	if code, _ := pgErrorCode(err); code == pgInvalidTextRepr {
		return notFound
	}
	return apperrors.NewAppError(500, msg, err)
}

// appendKeyset adds the cursor condition, the created_at DESC, id DESC ordering
// and a limit one larger than the page so the caller can tell whether more rows exist.
func appendKeyset(query string, args []any, idColumn string, limit int, nextToken *string) (string, []any, error) {
	if nextToken != nil {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return "", nil, apperrors.NewValidationError(nil, apperrors.Violation{Field: "nextToken", Message: "is not a valid pagination token"})
		}
		if cursor != nil {
			args = append(args, cursor.CreatedAt, cursor.ID)
			query += " AND (created_at, " + idColumn + ") < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
		}
	}
	args = append(args, limit+1)
	query += " ORDER BY created_at DESC, " + idColumn + " DESC LIMIT $" + strconv.Itoa(len(args))
	return query, args, nil
}

// trimPage cuts rows to limit and returns the token for the next page, or nil on the last page.
func trimPage[T any](rows []T, limit int, key func(T) (time.Time, string)) ([]T, *string) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	createdAt, id := key(rows[limit-1])
	token := pagination.EncodeCursor(createdAt, id)
	return rows, &token
}
