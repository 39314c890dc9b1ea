package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/utils"
	"github.com/SscSPs/invoicing_app/internal/utils/invoicing"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to add a catalog product.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=500"`
	UnitPrice   decimal.Decimal `json:"unitPrice" swaggertype:"string" validate:"gte=0"`
	TaxRate     decimal.Decimal `json:"taxRate" swaggertype:"string" validate:"gte=0"`
}

// Validate checks the request in one pass.
func (r CreateProductRequest) Validate() error {
	return ValidateStruct(r, productScaleViolations(&r.UnitPrice, &r.TaxRate)...)
}

// UpdateProductRequest defines the data allowed for updating a product.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" swaggertype:"string" validate:"omitempty,gte=0"`
	TaxRate     *decimal.Decimal `json:"taxRate" swaggertype:"string" validate:"omitempty,gte=0"`
}

// Validate checks the request in one pass.
func (r UpdateProductRequest) Validate() error {
	return ValidateStruct(r, productScaleViolations(r.UnitPrice, r.TaxRate)...)
}

// productScaleViolations keeps catalog prices and rates within the scale line items accept.
func productScaleViolations(unitPrice, taxRate *decimal.Decimal) []apperrors.Violation {
	var violations []apperrors.Violation
	if unitPrice != nil && !invoicing.WithinScale(*unitPrice, invoicing.UnitPriceScale) {
		violations = append(violations, apperrors.Violation{Field: "unitPrice", Message: fmt.Sprintf("must have at most %d decimal places", invoicing.UnitPriceScale)})
	}
	if taxRate != nil && !invoicing.WithinScale(*taxRate, invoicing.TaxRateScale) {
		violations = append(violations, apperrors.Violation{Field: "taxRate", Message: fmt.Sprintf("must have at most %d decimal places", invoicing.TaxRateScale)})
	}
	return violations
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	UnitPrice     string    `json:"unitPrice"`
	TaxRate       string    `json:"taxRate"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		UnitPrice:     utils.FormatWithPrecision(p.UnitPrice, invoicing.UnitPriceScale),
		TaxRate:       utils.FormatWithPrecision(p.TaxRate, invoicing.TaxRateScale),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListProductsResponse wraps a page of products.
type ListProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListProductsResponse converts a page of domain products.
func ToListProductsResponse(products []domain.Product, nextToken *string) ListProductsResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = ToProductResponse(&products[i])
	}
	return ListProductsResponse{Products: res, NextToken: nextToken}
}
