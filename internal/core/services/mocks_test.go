package services_test

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository is a mock type for the ClientRepositoryFacade interface
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, companyID string, filter domain.ClientFilter, limit int, nextToken *string) ([]domain.Client, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Client), next, args.Error(2)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, companyID, clientID string) error {
	return m.Called(ctx, companyID, clientID).Error(0)
}

// MockProductRepository is a mock type for the ProductRepositoryFacade interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, companyID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Product, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Product), nil, args.Error(2)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, companyID, productID string) error {
	return m.Called(ctx, companyID, productID).Error(0)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, companyID string, filter domain.InvoiceFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), nil, args.Error(2)
}

func (m *MockInvoiceRepository) FindLatestInvoiceNumber(ctx context.Context, companyID, prefix string) (string, error) {
	args := m.Called(ctx, companyID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoiceNumbers(ctx context.Context, companyID, prefix string) ([]string, error) {
	args := m.Called(ctx, companyID, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) ReplaceInvoiceItems(ctx context.Context, invoiceID string, items []domain.LineItem) error {
	return m.Called(ctx, invoiceID, items).Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	return m.Called(ctx, companyID, invoiceID).Error(0)
}

func (m *MockInvoiceRepository) LockInvoice(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, companyID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, companyID string, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Payment), nil, args.Error(2)
}

func (m *MockPaymentRepository) SumPaymentsForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, companyID, paymentID string) error {
	return m.Called(ctx, companyID, paymentID).Error(0)
}

// mockTxRunner runs fn directly against the mocks and counts attempts.
type mockTxRunner struct {
	repos portsrepo.TxRepositories
	runs  int
}

func (r *mockTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	r.runs++
	return fn(ctx, r.repos)
}

// MockMetrics records business events.
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) InvoiceCreated(status string)         { m.Called(status) }
func (m *MockMetrics) InvoiceNumberConflict()               { m.Called() }
func (m *MockMetrics) InvoiceNumberExhausted()              { m.Called() }
func (m *MockMetrics) PaymentRecorded()                     { m.Called() }
func (m *MockMetrics) InvoiceStatusChanged(from, to string) { m.Called(from, to) }
