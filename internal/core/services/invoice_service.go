package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/utils/invoicing"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxNumberAttempts bounds how often creation regenerates an invoice
// number after losing a race on the (company, number) unique constraint.
const DefaultMaxNumberAttempts = 3

type invoiceService struct {
	BaseService
	invoiceRepo       portsrepo.InvoiceRepositoryFacade
	txRunner          portsrepo.TxRunner
	maxNumberAttempts int
}

// InvoiceServiceOption configures invoice-specific behaviour.
type InvoiceServiceOption func(*invoiceService)

// WithMaxNumberAttempts sets the bounded retry count for invoice number allocation.
func WithMaxNumberAttempts(n int) InvoiceServiceOption {
	return func(s *invoiceService) {
		if n > 0 {
			s.maxNumberAttempts = n
		}
	}
}

// WithInvoiceBase applies shared service options.
func WithInvoiceBase(options ...ServiceOption) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.apply(options)
	}
}

// NewInvoiceService creates a new invoice service with the provided options
func NewInvoiceService(repo portsrepo.InvoiceRepositoryFacade, txRunner portsrepo.TxRunner, options ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		BaseService:       newBaseService(),
		invoiceRepo:       repo,
		txRunner:          txRunner,
		maxNumberAttempts: DefaultMaxNumberAttempts,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// companyNumbers adapts the invoice repository to the number generator for one company.
type companyNumbers struct {
	repo      portsrepo.InvoiceNumberReader
	companyID string
}

func (c companyNumbers) LatestNumber(ctx context.Context, prefix string) (string, error) {
	return c.repo.FindLatestInvoiceNumber(ctx, c.companyID, prefix)
}

func (c companyNumbers) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return c.repo.ListInvoiceNumbers(ctx, c.companyID, prefix)
}

// present sets the status callers see, deriving OVERDUE from the due date.
func (s *invoiceService) present(inv *domain.Invoice) *domain.Invoice {
	inv.Status = inv.EffectiveStatus(s.Clock.Now())
	return inv
}

func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	issueDate, _ := dto.ParseDate(req.IssueDate)
	dueDate, _ := dto.ParseDate(req.DueDate)

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}

	for attempt := 1; attempt <= s.maxNumberAttempts; attempt++ {
		now := s.now()
		inv := domain.Invoice{
			InvoiceID:     uuid.NewString(),
			CompanyID:     companyID,
			ClientID:      req.ClientID,
			Status:        status,
			IssueDate:     issueDate,
			DueDate:       dueDate,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Terms:         req.Terms,
			AuditFields:   domain.NewAuditFields(userID, now),
		}

		err := s.txRunner.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			if _, err := repos.Clients.FindClientByID(ctx, companyID, req.ClientID); err != nil {
				return err
			}

			items, err := buildLineItems(ctx, repos.Products, companyID, inv.InvoiceID, req.Items)
			if err != nil {
				return err
			}
			inv.Items = items
			if err := invoicing.ApplyTotals(&inv, decimal.Zero); err != nil {
				return err
			}
			if inv.Status == domain.StatusPaid {
				invoicing.ApplyPaid(&inv)
				paidAt := now
				inv.PaidAt = &paidAt
			}

			number, err := invoicing.NextInvoiceNumber(ctx, companyNumbers{repo: repos.Invoices, companyID: companyID}, now)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = number

			return repos.Invoices.SaveInvoice(ctx, inv)
		})

		switch {
		case err == nil:
			s.Metrics.InvoiceCreated(string(inv.Status))
			s.LogInfo(ctx, "Invoice created", "invoice_id", inv.InvoiceID, "invoice_number", inv.InvoiceNumber, "attempt", attempt)
			return s.present(&inv), nil
		case errors.Is(err, apperrors.ErrDuplicateIdentifier):
			s.Metrics.InvoiceNumberConflict()
			s.LogDebug(ctx, "Invoice number taken by a concurrent request, retrying", "invoice_number", inv.InvoiceNumber, "attempt", attempt)
			continue
		default:
			if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to create invoice", "client_id", req.ClientID)
			}
			return nil, err
		}
	}

	s.Metrics.InvoiceNumberExhausted()
	err := fmt.Errorf("%w after %d attempts", apperrors.ErrServiceUnavailable, s.maxNumberAttempts)
	s.LogError(ctx, err, "Giving up on invoice number allocation", "company_id", companyID)
	return nil, err
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, companyID, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, companyID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", "invoice_id", invoiceID)
		}
		return nil, err
	}
	return s.present(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, companyID string, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	filter := domain.InvoiceFilter{ClientID: params.ClientID}
	today := domain.DateOnly(s.Clock.Now())
	switch domain.InvoiceStatus(params.Status) {
	case "":
	case domain.StatusOverdue:
		filter.Status = domain.StatusPending
		filter.DueBefore = &today
	case domain.StatusPending:
		filter.Status = domain.StatusPending
		filter.DueOnOrAfter = &today
	default:
		filter.Status = domain.InvoiceStatus(params.Status)
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, companyID, filter, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list invoices")
		}
		return nil, nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	for i := range invoices {
		s.present(&invoices[i])
	}
	return invoices, next, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Invoice
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		inv, err := repos.Invoices.LockInvoice(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if !inv.IsEditable() {
			return fmt.Errorf("%w: invoice in status %s cannot be edited", apperrors.ErrInvalidStatusTransition, inv.Status)
		}

		if req.ClientID != nil && *req.ClientID != inv.ClientID {
			if _, err := repos.Clients.FindClientByID(ctx, companyID, *req.ClientID); err != nil {
				return err
			}
			inv.ClientID = *req.ClientID
		}
		if req.IssueDate != nil {
			inv.IssueDate, _ = dto.ParseDate(*req.IssueDate)
		}
		if req.DueDate != nil {
			inv.DueDate, _ = dto.ParseDate(*req.DueDate)
		}
		if inv.DueDate.Before(inv.IssueDate) {
			return apperrors.NewValidationError(nil, apperrors.Violation{Field: "dueDate", Message: "must not be before issueDate"})
		}
		if req.PaymentMethod != nil {
			inv.PaymentMethod = *req.PaymentMethod
		}
		if req.Notes != nil {
			inv.Notes = *req.Notes
		}
		if req.Terms != nil {
			inv.Terms = *req.Terms
		}

		replaceItems := req.Items != nil
		if replaceItems {
			items, err := buildLineItems(ctx, repos.Products, companyID, inv.InvoiceID, req.Items)
			if err != nil {
				return err
			}
			inv.Items = items
		}

		amountPaid, err := repos.Payments.SumPaymentsForInvoice(ctx, inv.InvoiceID)
		if err != nil {
			return err
		}
		if err := invoicing.ApplyTotals(inv, amountPaid); err != nil {
			return err
		}
		if replaceItems && inv.Total.LessThan(amountPaid) {
			return apperrors.NewValidationError(nil, apperrors.Violation{
				Field: "items",
				Message: fmt.Sprintf("total %s is below the amount already paid %s",
					inv.Total.StringFixed(invoicing.MoneyScale), amountPaid.StringFixed(invoicing.MoneyScale)),
			})
		}
		inv.Touch(userID, s.now())

		if replaceItems {
			if err := repos.Invoices.ReplaceInvoiceItems(ctx, inv.InvoiceID, inv.Items); err != nil {
				return err
			}
		}
		if err := repos.Invoices.UpdateInvoice(ctx, *inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update invoice", "invoice_id", invoiceID)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated", "invoice_id", invoiceID, "items_replaced", req.Items != nil)
	return s.present(updated), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID, invoiceID string) error {
	if err := s.invoiceRepo.DeleteInvoice(ctx, companyID, invoiceID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete invoice", "invoice_id", invoiceID)
		}
		return err
	}
	s.LogInfo(ctx, "Invoice deleted", "invoice_id", invoiceID)
	return nil
}

func (s *invoiceService) ChangeStatus(ctx context.Context, companyID, invoiceID string, target domain.InvoiceStatus, userID string) (*domain.Invoice, error) {
	if err := (dto.UpdateInvoiceStatusRequest{Status: target}).Validate(); err != nil {
		return nil, err
	}
	if target == domain.StatusPaid {
		return s.MarkAsPaid(ctx, companyID, invoiceID, userID)
	}
	return s.transition(ctx, companyID, invoiceID, userID, func(inv *domain.Invoice, now time.Time) error {
		if !inv.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStatusTransition, inv.Status, target)
		}
		inv.Status = target
		return nil
	})
}

func (s *invoiceService) MarkAsPaid(ctx context.Context, companyID, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.transition(ctx, companyID, invoiceID, userID, func(inv *domain.Invoice, now time.Time) error {
		if inv.Status != domain.StatusPending {
			return fmt.Errorf("%w: only PENDING invoices can be marked as paid, invoice is %s", apperrors.ErrInvalidStatusTransition, inv.Status)
		}
		inv.Status = domain.StatusPaid
		invoicing.ApplyPaid(inv)
		paidAt := now
		inv.PaidAt = &paidAt
		return nil
	})
}

// transition locks the invoice, lets mutate change it and persists the result in one transaction.
func (s *invoiceService) transition(ctx context.Context, companyID, invoiceID, userID string, mutate func(inv *domain.Invoice, now time.Time) error) (*domain.Invoice, error) {
	var (
		updated *domain.Invoice
		from    domain.InvoiceStatus
	)
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		inv, err := repos.Invoices.LockInvoice(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		from = inv.Status
		now := s.now()
		if err := mutate(inv, now); err != nil {
			return err
		}
		inv.Touch(userID, now)
		if err := repos.Invoices.UpdateInvoice(ctx, *inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to change invoice status", "invoice_id", invoiceID)
		}
		return nil, err
	}

	s.Metrics.InvoiceStatusChanged(string(from), string(updated.Status))
	s.LogInfo(ctx, "Invoice status changed", "invoice_id", invoiceID, "from", string(from), "to", string(updated.Status))
	return s.present(updated), nil
}
