package handlers_test

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, companyID string, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) GetClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) ListClients(ctx context.Context, companyID string, params dto.ListClientsParams) ([]domain.Client, *string, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Client), next, args.Error(2)
}
func (m *MockClientService) UpdateClient(ctx context.Context, companyID, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	args := m.Called(ctx, companyID, clientID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) DeleteClient(ctx context.Context, companyID, clientID string) error {
	args := m.Called(ctx, companyID, clientID)
	return args.Error(0)
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

// --- Mock ProductService ---
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) GetProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams) ([]domain.Product, *string, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Product), next, args.Error(2)
}
func (m *MockProductService) UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) DeleteProduct(ctx context.Context, companyID, productID string) error {
	args := m.Called(ctx, companyID, productID)
	return args.Error(0)
}

var _ portssvc.ProductSvcFacade = (*MockProductService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, companyID string, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Invoice), next, args.Error(2)
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	args := m.Called(ctx, companyID, invoiceID)
	return args.Error(0)
}
func (m *MockInvoiceService) ChangeStatus(ctx context.Context, companyID, invoiceID string, target domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, target, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) MarkAsPaid(ctx context.Context, companyID, invoiceID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) GetPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, companyID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, companyID string, params dto.ListPaymentsParams) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Payment), next, args.Error(2)
}
func (m *MockPaymentService) DeletePayment(ctx context.Context, companyID, paymentID string, userID string) error {
	args := m.Called(ctx, companyID, paymentID, userID)
	return args.Error(0)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)
