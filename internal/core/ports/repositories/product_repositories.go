package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// ProductReader defines read operations for catalog products
type ProductReader interface {
	// FindProductByID retrieves a product of the given company.
	FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves several products of one company keyed by ID. Missing IDs are absent from the map.
	FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error)

	// ListProducts retrieves a page of products ordered newest first.
	ListProducts(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Product, *string, error)
}

// ProductWriter defines write operations for catalog products
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, companyID, productID string) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
