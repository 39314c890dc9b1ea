package pgsql

import (
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ClientRepo:  newPgxClientRepository(dbPool),
		ProductRepo: newPgxProductRepository(dbPool),
		InvoiceRepo: newPgxInvoiceRepository(dbPool),
		PaymentRepo: newPgxPaymentRepository(dbPool),
		TxRunner:    &PgxTxRunner{Pool: dbPool},
	}
}
