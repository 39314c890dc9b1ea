package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// buildLineItems turns submitted items into domain items for invoiceID. Items
// referencing a product get any missing description, unit price or tax rate
// copied from the product as it is right now. Derived amounts are left zero.
func buildLineItems(ctx context.Context, products portsrepo.ProductReader, companyID, invoiceID string, reqs []dto.LineItemRequest) ([]domain.LineItem, error) {
	var productIDs []string
	seen := make(map[string]bool)
	for _, r := range reqs {
		if r.ProductID != nil && !seen[*r.ProductID] {
			seen[*r.ProductID] = true
			productIDs = append(productIDs, *r.ProductID)
		}
	}

	catalog := map[string]domain.Product{}
	if len(productIDs) > 0 {
		var err error
		catalog, err = products.FindProductsByIDs(ctx, companyID, productIDs)
		if err != nil {
			return nil, err
		}
	}

	items := make([]domain.LineItem, len(reqs))
	for i, r := range reqs {
		item := domain.LineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			Position:    i + 1,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   decimal.Zero,
			TaxRate:     decimal.Zero,
		}
		if r.UnitPrice != nil {
			item.UnitPrice = *r.UnitPrice
		}
		if r.TaxRate != nil {
			item.TaxRate = *r.TaxRate
		}

		if r.ProductID != nil {
			product, ok := catalog[*r.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: items[%d].productId %s", apperrors.ErrProductNotFound, i, *r.ProductID)
			}
			productID := product.ProductID
			item.ProductID = &productID
			if item.Description == "" {
				item.Description = product.Name
				if product.Description != "" {
					item.Description = product.Name + " - " + product.Description
				}
			}
			if r.UnitPrice == nil {
				item.UnitPrice = product.UnitPrice
			}
			if r.TaxRate == nil {
				item.TaxRate = product.TaxRate
			}
		}
		items[i] = item
	}
	return items, nil
}
