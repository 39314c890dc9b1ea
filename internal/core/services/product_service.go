package services

import (
	"context"
	"errors"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/utils/pagination"
	"github.com/google/uuid"
)

type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new catalog service with the provided options
func NewProductService(repo portsrepo.ProductRepositoryFacade, options ...ServiceOption) portssvc.ProductSvcFacade {
	svc := &productService{BaseService: newBaseService(), productRepo: repo}
	svc.apply(options)
	return svc
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := domain.Product{
		ProductID:   uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", "product_id", product.ProductID)
		return nil, err
	}
	s.LogInfo(ctx, "Product created", "product_id", product.ProductID)
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product", "product_id", productID)
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, companyID string, params dto.ListProductsParams) ([]domain.Product, *string, error) {
	products, next, err := s.productRepo.ListProducts(ctx, companyID, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list products")
		}
		return nil, nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, next, nil
}

// UpdateProduct changes the catalog entry only. Line items already copied from it keep their values.
func (s *productService) UpdateProduct(ctx context.Context, companyID, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.GetProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	product.Touch(userID, s.now())

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", "product_id", productID)
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, companyID, productID string) error {
	if err := s.productRepo.DeleteProduct(ctx, companyID, productID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete product", "product_id", productID)
		}
		return err
	}
	return nil
}
