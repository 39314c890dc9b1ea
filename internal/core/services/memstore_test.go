package services_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memState is one consistent view of every table.
type memState struct {
	clients  map[string]domain.Client
	products map[string]domain.Product
	invoices map[string]domain.Invoice
	payments map[string]domain.Payment
}

func (s memState) clone() memState {
	out := memState{
		clients:  make(map[string]domain.Client, len(s.clients)),
		products: make(map[string]domain.Product, len(s.products)),
		invoices: make(map[string]domain.Invoice, len(s.invoices)),
		payments: make(map[string]domain.Payment, len(s.payments)),
	}
	for k, v := range s.clients {
		out.clients[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.invoices {
		out.invoices[k] = cloneInvoice(v)
	}
	for k, v := range s.payments {
		out.payments[k] = v
	}
	return out
}

func cloneInvoice(inv domain.Invoice) domain.Invoice {
	inv.Items = append([]domain.LineItem(nil), inv.Items...)
	return inv
}

// memStore is a snapshot-isolated transactional store. Each transaction works
// on a private copy and commits its writes atomically; the (company, invoice
// number) uniqueness is checked again at commit so concurrent creators race
// the way they do against Postgres.
type memStore struct {
	mu        sync.Mutex
	committed memState

	// failUpdateInvoice, when set, is returned by UpdateInvoice inside transactions.
	failUpdateInvoice error
}

func newMemStore() *memStore {
	return &memStore{committed: memState{
		clients:  map[string]domain.Client{},
		products: map[string]domain.Product{},
		invoices: map[string]domain.Invoice{},
		payments: map[string]domain.Payment{},
	}}
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.clone()
}

// reader returns a read-only view of the committed state.
func (s *memStore) reader() *memTx {
	return &memTx{store: s, state: s.snapshot()}
}

func (s *memStore) invoice(id string) (domain.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.committed.invoices[id]
	return cloneInvoice(inv), ok
}

func (s *memStore) invoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed.invoices)
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx := &memTx{
		store:     s,
		state:     s.snapshot(),
		dirtyInv:  map[string]bool{},
		dirtyPay:  map[string]bool{},
		insertInv: map[string]bool{},
	}
	if err := fn(ctx, portsrepo.TxRepositories{Clients: tx, Products: tx, Invoices: tx, Payments: tx}); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *memStore) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range tx.insertInv {
		inv := tx.state.invoices[id]
		for _, existing := range s.committed.invoices {
			if existing.CompanyID == inv.CompanyID && existing.InvoiceNumber == inv.InvoiceNumber {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateIdentifier, inv.InvoiceNumber)
			}
		}
	}
	for id := range tx.dirtyInv {
		if inv, ok := tx.state.invoices[id]; ok {
			s.committed.invoices[id] = cloneInvoice(inv)
		} else {
			delete(s.committed.invoices, id)
		}
	}
	for id := range tx.dirtyPay {
		if p, ok := tx.state.payments[id]; ok {
			s.committed.payments[id] = p
		} else {
			delete(s.committed.payments, id)
		}
	}
	return nil
}

// memTx implements every repository port over a private state copy.
type memTx struct {
	store     *memStore
	state     memState
	dirtyInv  map[string]bool
	dirtyPay  map[string]bool
	insertInv map[string]bool
}

var (
	_ portsrepo.ClientReader            = (*memTx)(nil)
	_ portsrepo.ProductReader           = (*memTx)(nil)
	_ portsrepo.InvoiceRepositoryFacade = (*memTx)(nil)
	_ portsrepo.PaymentRepositoryFacade = (*memTx)(nil)
)

func (t *memTx) FindClientByID(_ context.Context, companyID, clientID string) (*domain.Client, error) {
	c, ok := t.state.clients[clientID]
	if !ok || c.CompanyID != companyID {
		return nil, apperrors.ErrClientNotFound
	}
	return &c, nil
}

func (t *memTx) ListClients(context.Context, string, domain.ClientFilter, int, *string) ([]domain.Client, *string, error) {
	return nil, nil, nil
}

func (t *memTx) FindProductByID(_ context.Context, companyID, productID string) (*domain.Product, error) {
	p, ok := t.state.products[productID]
	if !ok || p.CompanyID != companyID {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (t *memTx) FindProductsByIDs(_ context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	out := map[string]domain.Product{}
	for _, id := range productIDs {
		if p, ok := t.state.products[id]; ok && p.CompanyID == companyID {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) ListProducts(context.Context, string, int, *string) ([]domain.Product, *string, error) {
	return nil, nil, nil
}

func (t *memTx) FindInvoiceByID(_ context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	inv, ok := t.state.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return nil, apperrors.ErrInvoiceNotFound
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

func (t *memTx) LockInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	return t.FindInvoiceByID(ctx, companyID, invoiceID)
}

func (t *memTx) ListInvoices(_ context.Context, companyID string, filter domain.InvoiceFilter, limit int, _ *string) ([]domain.Invoice, *string, error) {
	var out []domain.Invoice
	for _, inv := range t.state.invoices {
		if inv.CompanyID != companyID || (filter.Status != "" && inv.Status != filter.Status) {
			continue
		}
		inv.Items = nil
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber > out[j].InvoiceNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (t *memTx) FindLatestInvoiceNumber(_ context.Context, companyID, prefix string) (string, error) {
	latest := ""
	for _, inv := range t.state.invoices {
		if inv.CompanyID == companyID && strings.HasPrefix(inv.InvoiceNumber, prefix) && inv.InvoiceNumber > latest {
			latest = inv.InvoiceNumber
		}
	}
	return latest, nil
}

func (t *memTx) ListInvoiceNumbers(_ context.Context, companyID, prefix string) ([]string, error) {
	var out []string
	for _, inv := range t.state.invoices {
		if inv.CompanyID == companyID && strings.HasPrefix(inv.InvoiceNumber, prefix) {
			out = append(out, inv.InvoiceNumber)
		}
	}
	return out, nil
}

func (t *memTx) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	for _, existing := range t.state.invoices {
		if existing.CompanyID == invoice.CompanyID && existing.InvoiceNumber == invoice.InvoiceNumber {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateIdentifier, invoice.InvoiceNumber)
		}
	}
	t.state.invoices[invoice.InvoiceID] = cloneInvoice(invoice)
	t.dirtyInv[invoice.InvoiceID] = true
	t.insertInv[invoice.InvoiceID] = true
	return nil
}

func (t *memTx) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	if t.store.failUpdateInvoice != nil {
		return t.store.failUpdateInvoice
	}
	stored, ok := t.state.invoices[invoice.InvoiceID]
	if !ok {
		return apperrors.ErrInvoiceNotFound
	}
	invoice.Items = stored.Items
	t.state.invoices[invoice.InvoiceID] = invoice
	t.dirtyInv[invoice.InvoiceID] = true
	return nil
}

func (t *memTx) ReplaceInvoiceItems(_ context.Context, invoiceID string, items []domain.LineItem) error {
	stored, ok := t.state.invoices[invoiceID]
	if !ok {
		return apperrors.ErrInvoiceNotFound
	}
	stored.Items = append([]domain.LineItem(nil), items...)
	t.state.invoices[invoiceID] = stored
	t.dirtyInv[invoiceID] = true
	return nil
}

func (t *memTx) DeleteInvoice(_ context.Context, companyID, invoiceID string) error {
	inv, ok := t.state.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return apperrors.ErrInvoiceNotFound
	}
	delete(t.state.invoices, invoiceID)
	t.dirtyInv[invoiceID] = true
	return nil
}

func (t *memTx) FindPaymentByID(_ context.Context, companyID, paymentID string) (*domain.Payment, error) {
	p, ok := t.state.payments[paymentID]
	if !ok || p.CompanyID != companyID {
		return nil, apperrors.ErrPaymentNotFound
	}
	return &p, nil
}

func (t *memTx) ListPayments(_ context.Context, companyID string, filter domain.PaymentFilter, _ int, _ *string) ([]domain.Payment, *string, error) {
	var out []domain.Payment
	for _, p := range t.state.payments {
		if p.CompanyID != companyID {
			continue
		}
		if filter.InvoiceID != "" && (p.InvoiceID == nil || *p.InvoiceID != filter.InvoiceID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil, nil
}

func (t *memTx) SumPaymentsForInvoice(_ context.Context, invoiceID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range t.state.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (t *memTx) SavePayment(_ context.Context, payment domain.Payment) error {
	t.state.payments[payment.PaymentID] = payment
	t.dirtyPay[payment.PaymentID] = true
	return nil
}

func (t *memTx) DeletePayment(_ context.Context, companyID, paymentID string) error {
	p, ok := t.state.payments[paymentID]
	if !ok || p.CompanyID != companyID {
		return apperrors.ErrPaymentNotFound
	}
	delete(t.state.payments, paymentID)
	t.dirtyPay[paymentID] = true
	return nil
}
