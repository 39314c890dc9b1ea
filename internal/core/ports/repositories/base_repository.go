package repositories

import (
	"context"
)

// TxRepositories holds repositories bound to a single database transaction.
type TxRepositories struct {
	Clients  ClientReader
	Products ProductReader
	Invoices InvoiceRepositoryFacade
	Payments PaymentRepositoryFacade
}

// TxRunner runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back otherwise, so no partial state is visible.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
