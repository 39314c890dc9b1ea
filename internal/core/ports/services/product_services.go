package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// ProductReaderSvc defines read operations for catalog products
type ProductReaderSvc interface {
	GetProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams) ([]domain.Product, *string, error)
}

// ProductWriterSvc defines write operations for catalog products
type ProductWriterSvc interface {
	CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, companyID, productID string) error
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
