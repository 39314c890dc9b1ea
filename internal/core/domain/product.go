package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry whose data is copied into line items when referenced.
type Product struct {
	ProductID   string          `json:"productID"`
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // percent
	AuditFields
}
