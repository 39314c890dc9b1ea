package mapping

import (
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		CompanyID:   d.CompanyID,
		InvoiceID:   d.InvoiceID,
		ClientID:    d.ClientID,
		Amount:      d.Amount,
		Method:      d.Method,
		Reference:   d.Reference,
		Notes:       d.Notes,
		PaidAt:      d.PaidAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		CompanyID:   m.CompanyID,
		InvoiceID:   m.InvoiceID,
		ClientID:    m.ClientID,
		Amount:      m.Amount,
		Method:      m.Method,
		Reference:   m.Reference,
		Notes:       m.Notes,
		PaidAt:      domain.DateOnly(m.PaidAt),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
