package mapping

import (
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Description: d.Description,
		UnitPrice:   d.UnitPrice,
		TaxRate:     d.TaxRate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Description: m.Description,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
