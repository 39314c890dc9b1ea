package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/core/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/platform/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testCompanyID = "company-1"
	testUserID    = "user-1"
	testClientID  = "6f1c0f34-3b8e-4a43-9d59-0d7a4c7b1e01"
	testProductID = "0b8f5a8c-5b0f-4a55-9a32-5d8f0d2c9e11"
	testInvoiceID = "9d1f6a3e-2c4b-4f8a-8e7d-1a2b3c4d5e6f"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

type InvoiceServiceTestSuite struct {
	suite.Suite
	clients  *MockClientRepository
	products *MockProductRepository
	invoices *MockInvoiceRepository
	payments *MockPaymentRepository
	metrics  *MockMetrics
	tx       *mockTxRunner
	clock    *clock.FakeClock
	service  portssvc.InvoiceSvcFacade
	ctx      context.Context
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.clients = new(MockClientRepository)
	suite.products = new(MockProductRepository)
	suite.invoices = new(MockInvoiceRepository)
	suite.payments = new(MockPaymentRepository)
	suite.metrics = new(MockMetrics)
	suite.tx = &mockTxRunner{repos: portsrepo.TxRepositories{
		Clients:  suite.clients,
		Products: suite.products,
		Invoices: suite.invoices,
		Payments: suite.payments,
	}}
	suite.clock = clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	suite.service = services.NewInvoiceService(
		suite.invoices,
		suite.tx,
		services.WithMaxNumberAttempts(3),
		services.WithInvoiceBase(services.WithClock(suite.clock), services.WithMetrics(suite.metrics)),
	)
	suite.ctx = context.Background()
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.clients.AssertExpectations(suite.T())
	suite.products.AssertExpectations(suite.T())
	suite.invoices.AssertExpectations(suite.T())
	suite.payments.AssertExpectations(suite.T())
	suite.metrics.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) createRequest(items ...dto.LineItemRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID:  testClientID,
		IssueDate: "2025-03-10",
		DueDate:   "2025-04-09",
		Items:     items,
	}
}

func (suite *InvoiceServiceTestSuite) expectClient() {
	suite.clients.On("FindClientByID", mock.Anything, testCompanyID, testClientID).
		Return(&domain.Client{ClientID: testClientID, CompanyID: testCompanyID}, nil)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	suite.expectClient()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("INV-25-000041", nil).Once()
	suite.invoices.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-25-000042" && inv.Status == domain.StatusDraft && len(inv.Items) == 2
	})).Return(nil).Once()
	suite.metrics.On("InvoiceCreated", "DRAFT").Once()

	req := suite.createRequest(
		dto.LineItemRequest{Description: "Consulting", Quantity: dec("1"), UnitPrice: decPtr("100"), TaxRate: decPtr("20")},
		dto.LineItemRequest{Description: "Hosting", Quantity: dec("2"), UnitPrice: decPtr("50"), TaxRate: decPtr("0")},
	)
	inv, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.Require().NoError(err)
	suite.Equal("INV-25-000042", inv.InvoiceNumber)
	suite.True(dec("200.00").Equal(inv.Subtotal))
	suite.True(dec("20.00").Equal(inv.TaxAmount))
	suite.True(dec("220.00").Equal(inv.Total))
	suite.True(dec("0").Equal(inv.AmountPaid))
	suite.True(dec("220.00").Equal(inv.AmountDue))
	suite.Equal(1, inv.Items[0].Position)
	suite.Equal(2, inv.Items[1].Position)
	suite.Equal(testUserID, inv.CreatedBy)
	suite.Nil(inv.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_CreatedAsPaid() {
	suite.expectClient()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("", nil).Once()
	suite.invoices.On("SaveInvoice", mock.Anything, mock.Anything).Return(nil).Once()
	suite.metrics.On("InvoiceCreated", "PAID").Once()

	req := suite.createRequest(dto.LineItemRequest{Description: "Widget", Quantity: dec("3"), UnitPrice: decPtr("10.005"), TaxRate: decPtr("20")})
	req.Status = domain.StatusPaid
	inv, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.Require().NoError(err)
	suite.Equal("INV-25-000001", inv.InvoiceNumber)
	suite.True(dec("36.02").Equal(inv.Total))
	suite.True(inv.Total.Equal(inv.AmountPaid))
	suite.True(inv.AmountDue.IsZero())
	suite.Require().NotNil(inv.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_CopiesProductData() {
	suite.expectClient()
	suite.products.On("FindProductsByIDs", mock.Anything, testCompanyID, []string{testProductID}).Return(map[string]domain.Product{
		testProductID: {ProductID: testProductID, Name: "Support plan", UnitPrice: dec("49.99"), TaxRate: dec("5.5")},
	}, nil).Once()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("", nil).Once()
	suite.invoices.On("SaveInvoice", mock.Anything, mock.Anything).Return(nil).Once()
	suite.metrics.On("InvoiceCreated", "DRAFT").Once()

	req := suite.createRequest(dto.LineItemRequest{ProductID: strPtr(testProductID), Quantity: dec("2"), TaxRate: decPtr("0")})
	inv, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.Require().NoError(err)
	item := inv.Items[0]
	suite.Equal("Support plan", item.Description)
	suite.True(dec("49.99").Equal(item.UnitPrice))
	suite.True(item.TaxRate.IsZero(), "explicit tax rate wins over the product's")
	suite.True(dec("99.98").Equal(inv.Total))
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ProductNotFound() {
	suite.expectClient()
	suite.products.On("FindProductsByIDs", mock.Anything, testCompanyID, []string{testProductID}).Return(map[string]domain.Product{}, nil).Once()

	req := suite.createRequest(dto.LineItemRequest{ProductID: strPtr(testProductID), Quantity: dec("1")})
	_, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrProductNotFound)
	suite.invoices.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InvalidItemsNothingWritten() {
	suite.expectClient()

	req := suite.createRequest(
		dto.LineItemRequest{Description: "Bad qty", Quantity: dec("0"), UnitPrice: decPtr("10")},
		dto.LineItemRequest{Description: "Bad price", Quantity: dec("1"), UnitPrice: decPtr("-1"), TaxRate: decPtr("-5")},
	)
	_, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidLineItem)
	var vErr *apperrors.ValidationError
	suite.Require().True(errors.As(err, &vErr))
	suite.Len(vErr.Violations, 3)
	suite.invoices.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ClientNotFound() {
	suite.clients.On("FindClientByID", mock.Anything, testCompanyID, testClientID).Return(nil, apperrors.ErrClientNotFound).Once()

	req := suite.createRequest(dto.LineItemRequest{Description: "x", Quantity: dec("1"), UnitPrice: decPtr("1")})
	_, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrClientNotFound)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RequestValidationBeforeAnyRead() {
	req := suite.createRequest(dto.LineItemRequest{Description: "x", Quantity: dec("1")})
	req.DueDate = "2025-03-01"
	_, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidationFailed)
	suite.Equal(0, suite.tx.runs)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RetriesOnDuplicateNumber() {
	suite.expectClient()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("INV-25-000007", nil).Once()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("INV-25-000008", nil).Once()
	suite.invoices.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-25-000008"
	})).Return(apperrors.ErrDuplicateIdentifier).Once()
	suite.invoices.On("SaveInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.InvoiceNumber == "INV-25-000009"
	})).Return(nil).Once()
	suite.metrics.On("InvoiceNumberConflict").Once()
	suite.metrics.On("InvoiceCreated", "DRAFT").Once()

	req := suite.createRequest(dto.LineItemRequest{Description: "x", Quantity: dec("1"), UnitPrice: decPtr("1")})
	inv, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.Require().NoError(err)
	suite.Equal("INV-25-000009", inv.InvoiceNumber)
	suite.Equal(2, suite.tx.runs)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RetriesExhausted() {
	suite.expectClient()
	suite.invoices.On("FindLatestInvoiceNumber", mock.Anything, testCompanyID, "INV-25-").Return("INV-25-000001", nil)
	suite.invoices.On("SaveInvoice", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicateIdentifier).Times(3)
	suite.metrics.On("InvoiceNumberConflict").Times(3)
	suite.metrics.On("InvoiceNumberExhausted").Once()

	req := suite.createRequest(dto.LineItemRequest{Description: "x", Quantity: dec("1"), UnitPrice: decPtr("1")})
	_, err := suite.service.CreateInvoice(suite.ctx, testCompanyID, req, testUserID)

	suite.ErrorIs(err, apperrors.ErrServiceUnavailable)
	suite.Equal(3, suite.tx.runs)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_PresentsOverdue() {
	stored := &domain.Invoice{
		InvoiceID: testInvoiceID,
		Status:    domain.StatusPending,
		DueDate:   time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	suite.invoices.On("FindInvoiceByID", mock.Anything, testCompanyID, testInvoiceID).Return(stored, nil).Once()

	inv, err := suite.service.GetInvoiceByID(suite.ctx, testCompanyID, testInvoiceID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusOverdue, inv.Status)
}

func (suite *InvoiceServiceTestSuite) TestListInvoices_OverdueFilter() {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	suite.invoices.On("ListInvoices", mock.Anything, testCompanyID, domain.InvoiceFilter{
		Status:    domain.StatusPending,
		DueBefore: &today,
	}, 20, (*string)(nil)).Return([]domain.Invoice{{Status: domain.StatusPending, DueDate: today.AddDate(0, 0, -3)}}, nil, nil).Once()

	invoices, next, err := suite.service.ListInvoices(suite.ctx, testCompanyID, dto.ListInvoicesParams{Status: "OVERDUE"})

	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Require().Len(invoices, 1)
	suite.Equal(domain.StatusOverdue, invoices[0].Status)
}

func (suite *InvoiceServiceTestSuite) lockedInvoice(status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:  testInvoiceID,
		CompanyID:  testCompanyID,
		ClientID:   testClientID,
		Status:     status,
		IssueDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Subtotal:   dec("100.00"),
		TaxAmount:  dec("20.00"),
		Total:      dec("120.00"),
		AmountPaid: dec("0"),
		AmountDue:  dec("120.00"),
	}
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ReplacesItemsAndRecomputes() {
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(domain.StatusPending), nil).Once()
	suite.payments.On("SumPaymentsForInvoice", mock.Anything, testInvoiceID).Return(dec("0.50"), nil).Once()
	suite.invoices.On("ReplaceInvoiceItems", mock.Anything, testInvoiceID, mock.MatchedBy(func(items []domain.LineItem) bool {
		return len(items) == 1 && items[0].Total.Equal(dec("1.10")) && items[0].InvoiceID == testInvoiceID
	})).Return(nil).Once()
	suite.invoices.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Total.Equal(dec("1.10")) && inv.AmountDue.Equal(dec("0.60"))
	})).Return(nil).Once()

	req := dto.UpdateInvoiceRequest{Items: []dto.LineItemRequest{{Description: "Tiny", Quantity: dec("1"), UnitPrice: decPtr("1"), TaxRate: decPtr("10")}}}
	inv, err := suite.service.UpdateInvoice(suite.ctx, testCompanyID, testInvoiceID, req, testUserID)

	suite.Require().NoError(err)
	suite.True(inv.Total.Equal(inv.Subtotal.Add(inv.TaxAmount)))
	suite.True(inv.AmountDue.Equal(inv.Total.Sub(inv.AmountPaid)))
	suite.Equal(testUserID, inv.LastUpdatedBy)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_HeaderOnlyKeepsItems() {
	locked := suite.lockedInvoice(domain.StatusDraft)
	locked.Items = []domain.LineItem{{LineItemID: "li-1", Position: 1, Description: "Kept", Quantity: dec("1"), UnitPrice: dec("100"), TaxRate: dec("20")}}
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(locked, nil).Once()
	suite.payments.On("SumPaymentsForInvoice", mock.Anything, testInvoiceID).Return(decimal.Zero, nil).Once()
	suite.invoices.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Notes == "net 30" && inv.Total.Equal(dec("120.00"))
	})).Return(nil).Once()

	inv, err := suite.service.UpdateInvoice(suite.ctx, testCompanyID, testInvoiceID, dto.UpdateInvoiceRequest{Notes: strPtr("net 30")}, testUserID)

	suite.Require().NoError(err)
	suite.Equal("li-1", inv.Items[0].LineItemID)
	suite.invoices.AssertNotCalled(suite.T(), "ReplaceInvoiceItems", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_NotEditable() {
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(domain.StatusPaid), nil).Once()

	_, err := suite.service.UpdateInvoice(suite.ctx, testCompanyID, testInvoiceID, dto.UpdateInvoiceRequest{Notes: strPtr("late")}, testUserID)

	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_DueBeforeIssue() {
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(domain.StatusDraft), nil).Once()

	_, err := suite.service.UpdateInvoice(suite.ctx, testCompanyID, testInvoiceID, dto.UpdateInvoiceRequest{DueDate: strPtr("2025-02-01")}, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (suite *InvoiceServiceTestSuite) TestChangeStatus_DraftToPending() {
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(domain.StatusDraft), nil).Once()
	suite.invoices.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.StatusPending
	})).Return(nil).Once()
	suite.metrics.On("InvoiceStatusChanged", "DRAFT", "PENDING").Once()

	inv, err := suite.service.ChangeStatus(suite.ctx, testCompanyID, testInvoiceID, domain.StatusPending, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPending, inv.Status)
}

func (suite *InvoiceServiceTestSuite) TestChangeStatus_Rejected() {
	cases := []struct {
		from   domain.InvoiceStatus
		target domain.InvoiceStatus
	}{
		{domain.StatusDraft, domain.StatusCancelled},
		{domain.StatusPaid, domain.StatusCancelled},
		{domain.StatusCancelled, domain.StatusPending},
		{domain.StatusPending, domain.StatusOverdue},
		{domain.StatusPending, domain.StatusDraft},
	}
	for _, tc := range cases {
		suite.Run(string(tc.from)+"->"+string(tc.target), func() {
			suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(tc.from), nil).Once()

			_, err := suite.service.ChangeStatus(suite.ctx, testCompanyID, testInvoiceID, tc.target, testUserID)

			suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
		})
	}
	suite.invoices.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestChangeStatus_UnknownStatus() {
	_, err := suite.service.ChangeStatus(suite.ctx, testCompanyID, testInvoiceID, domain.InvoiceStatus("ARCHIVED"), testUserID)

	suite.ErrorIs(err, apperrors.ErrValidationFailed)
	suite.Equal(0, suite.tx.runs)
}

func (suite *InvoiceServiceTestSuite) TestMarkAsPaid_OverduePending() {
	locked := suite.lockedInvoice(domain.StatusPending)
	locked.DueDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(locked, nil).Once()
	suite.invoices.On("UpdateInvoice", mock.Anything, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.Status == domain.StatusPaid && inv.AmountDue.IsZero() && inv.PaidAt != nil
	})).Return(nil).Once()
	suite.metrics.On("InvoiceStatusChanged", "PENDING", "PAID").Once()

	inv, err := suite.service.MarkAsPaid(suite.ctx, testCompanyID, testInvoiceID, testUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPaid, inv.Status)
	suite.True(dec("120.00").Equal(inv.AmountPaid))
	suite.Equal(suite.clock.Now(), *inv.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestMarkAsPaid_DraftRejected() {
	suite.invoices.On("LockInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(suite.lockedInvoice(domain.StatusDraft), nil).Once()

	_, err := suite.service.MarkAsPaid(suite.ctx, testCompanyID, testInvoiceID, testUserID)

	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice() {
	suite.invoices.On("DeleteInvoice", mock.Anything, testCompanyID, testInvoiceID).Return(nil).Once()

	suite.NoError(suite.service.DeleteInvoice(suite.ctx, testCompanyID, testInvoiceID))
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
