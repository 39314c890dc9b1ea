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
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
	"github.com/google/uuid"
)

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	txRunner    portsrepo.TxRunner
}

// NewPaymentService creates a new payment service with the provided options
func NewPaymentService(repo portsrepo.PaymentRepositoryFacade, txRunner portsrepo.TxRunner, options ...ServiceOption) portssvc.PaymentSvcFacade {
	svc := &paymentService{BaseService: newBaseService(), paymentRepo: repo, txRunner: txRunner}
	svc.apply(options)
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) RecordPayment(ctx context.Context, companyID string, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	paidAt := domain.DateOnly(now)
	if req.PaidAt != nil {
		paidAt, _ = dto.ParseDate(*req.PaidAt)
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		CompanyID:   companyID,
		InvoiceID:   req.InvoiceID,
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		Method:      req.Method,
		Reference:   req.Reference,
		Notes:       req.Notes,
		PaidAt:      paidAt,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if payment.InvoiceID == nil {
			if _, err := repos.Clients.FindClientByID(ctx, companyID, *payment.ClientID); err != nil {
				return err
			}
			return repos.Payments.SavePayment(ctx, payment)
		}

		inv, err := repos.Invoices.LockInvoice(ctx, companyID, *payment.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status != domain.StatusPending {
			return fmt.Errorf("%w: payments can only be recorded against PENDING invoices, invoice is %s", apperrors.ErrInvalidStatusTransition, inv.Status)
		}
		if payment.ClientID != nil && *payment.ClientID != inv.ClientID {
			return apperrors.NewValidationError(nil, apperrors.Violation{Field: "clientId", Message: "does not match the invoice's client"})
		}
		clientID := inv.ClientID
		payment.ClientID = &clientID

		if payment.Amount.GreaterThan(inv.AmountDue) {
			return apperrors.NewValidationError(nil, apperrors.Violation{
				Field:   "amount",
				Message: fmt.Sprintf("exceeds the amount due of %s", utils.FormatMoney(inv.AmountDue)),
			})
		}

		if err := repos.Payments.SavePayment(ctx, payment); err != nil {
			return err
		}
		return s.recompute(ctx, repos, inv, userID, now)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to record payment", "payment_id", payment.PaymentID)
		}
		return nil, err
	}

	s.Metrics.PaymentRecorded()
	s.LogInfo(ctx, "Payment recorded", "payment_id", payment.PaymentID, "amount", utils.FormatMoney(payment.Amount))
	return &payment, nil
}

// recompute refreshes amountPaid and amountDue of a locked invoice from its payments.
func (s *paymentService) recompute(ctx context.Context, repos portsrepo.TxRepositories, inv *domain.Invoice, userID string, now time.Time) error {
	paid, err := repos.Payments.SumPaymentsForInvoice(ctx, inv.InvoiceID)
	if err != nil {
		return err
	}
	inv.AmountPaid = paid
	inv.AmountDue = inv.Total.Sub(paid)
	inv.Touch(userID, now)
	return repos.Invoices.UpdateInvoice(ctx, *inv)
}

func (s *paymentService) GetPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, companyID, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", "payment_id", paymentID)
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, companyID string, params dto.ListPaymentsParams) ([]domain.Payment, *string, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	filter := domain.PaymentFilter{InvoiceID: params.InvoiceID, ClientID: params.ClientID}
	payments, next, err := s.paymentRepo.ListPayments(ctx, companyID, filter, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list payments")
		}
		return nil, nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, next, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, companyID, paymentID string, userID string) error {
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		payment, err := repos.Payments.FindPaymentByID(ctx, companyID, paymentID)
		if err != nil {
			return err
		}
		if payment.InvoiceID == nil {
			return repos.Payments.DeletePayment(ctx, companyID, paymentID)
		}

		inv, err := repos.Invoices.LockInvoice(ctx, companyID, *payment.InvoiceID)
		if err != nil {
			return err
		}
		if inv.Status.IsTerminal() {
			return fmt.Errorf("%w: payments of a %s invoice cannot be deleted", apperrors.ErrInvalidStatusTransition, inv.Status)
		}
		if err := repos.Payments.DeletePayment(ctx, companyID, paymentID); err != nil {
			return err
		}
		return s.recompute(ctx, repos, inv, userID, s.now())
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to delete payment", "payment_id", paymentID)
		}
		return err
	}
	s.LogInfo(ctx, "Payment deleted", "payment_id", paymentID)
	return nil
}
