package mapping

import (
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice. Items are mapped separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		CompanyID:     d.CompanyID,
		ClientID:      d.ClientID,
		InvoiceNumber: d.InvoiceNumber,
		Status:        models.InvoiceStatus(d.Status),
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		Terms:         d.Terms,
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
		AmountPaid:    d.AmountPaid,
		AmountDue:     d.AmountDue,
		PaidAt:        d.PaidAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice and its items to a domain Invoice
func ToDomainInvoice(m models.Invoice, items []models.InvoiceItem) domain.Invoice {
	d := domain.Invoice{
		InvoiceID:     m.InvoiceID,
		CompanyID:     m.CompanyID,
		ClientID:      m.ClientID,
		InvoiceNumber: m.InvoiceNumber,
		Status:        domain.InvoiceStatus(m.Status),
		IssueDate:     domain.DateOnly(m.IssueDate),
		DueDate:       domain.DateOnly(m.DueDate),
		PaymentMethod: m.PaymentMethod,
		Notes:         m.Notes,
		Terms:         m.Terms,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		Total:         m.Total,
		AmountPaid:    m.AmountPaid,
		AmountDue:     m.AmountDue,
		PaidAt:        m.PaidAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if items != nil {
		d.Items = make([]domain.LineItem, len(items))
		for i, it := range items {
			d.Items[i] = ToDomainLineItem(it)
		}
	}
	return d
}

// ToModelInvoiceItem converts a domain LineItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.LineItem) models.InvoiceItem {
	return models.InvoiceItem{
		InvoiceItemID: d.LineItemID,
		InvoiceID:     d.InvoiceID,
		ProductID:     d.ProductID,
		Position:      d.Position,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		TaxRate:       d.TaxRate,
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		Total:         d.Total,
	}
}

// ToDomainLineItem converts a model InvoiceItem to a domain LineItem
func ToDomainLineItem(m models.InvoiceItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:  m.InvoiceItemID,
		InvoiceID:   m.InvoiceID,
		ProductID:   m.ProductID,
		Position:    m.Position,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		Subtotal:    m.Subtotal,
		TaxAmount:   m.TaxAmount,
		Total:       m.Total,
	}
}
