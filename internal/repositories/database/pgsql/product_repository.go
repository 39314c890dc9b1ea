package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const productColumns = `product_id, company_id, name, description, unit_price, tax_rate,
	` + mapping.AuditColumns

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for catalog products.
func newPgxProductRepository(db Querier) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	args := append([]any{
		m.ProductID, m.CompanyID, m.Name, m.Description, m.UnitPrice, m.TaxRate,
	}, mapping.AuditInsertArgs(m.AuditFields)...)
	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.NewAppError(409, "product "+m.ProductID+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save product "+m.ProductID, err)
	}
	return nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 AND company_id = $2;`
	rows, _ := r.db.Query(ctx, query, productID, companyID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, lookupError(err, apperrors.ErrProductNotFound, "failed to find product "+productID)
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND product_id = ANY($2);`
	rows, _ := r.db.Query(ctx, query, companyID, productIDs)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgInvalidTextRepr {
			return map[string]domain.Product{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to query products by IDs", err)
	}

	products := make(map[string]domain.Product, len(ms))
	for _, m := range ms {
		products[m.ProductID] = mapping.ToDomainProduct(m)
	}
	return products, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Product, *string, error) {
	query, args, err := appendKeyset(`SELECT `+productColumns+` FROM products WHERE company_id = $1`, []any{companyID}, "product_id", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list products", err)
	}
	ms, next := trimPage(ms, limit, func(m models.Product) (time.Time, string) { return m.CreatedAt, m.ProductID })

	products := make([]domain.Product, len(ms))
	for i, m := range ms {
		products[i] = mapping.ToDomainProduct(m)
	}
	return products, next, nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $3, description = $4, unit_price = $5, tax_rate = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE product_id = $1 AND company_id = $2;
	`
	args := append([]any{
		m.ProductID, m.CompanyID, m.Name, m.Description, m.UnitPrice, m.TaxRate,
	}, mapping.AuditUpdateArgs(m.AuditFields)...)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update product "+m.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product. Existing line items keep their copied data
// and lose only the product reference.
func (r *PgxProductRepository) DeleteProduct(ctx context.Context, companyID, productID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1 AND company_id = $2;`, productID, companyID)
	if err != nil {
		return lookupError(err, apperrors.ErrProductNotFound, "failed to delete product "+productID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}
