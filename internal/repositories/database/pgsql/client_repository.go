package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoicing_app/internal/models"
	"github.com/SscSPs/invoicing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `client_id, company_id, name, email, phone, address, tax_id, notes,
	` + mapping.AuditColumns

type PgxClientRepository struct {
	BaseRepository
}

// newPgxClientRepository creates a new repository for client data.
func newPgxClientRepository(db Querier) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{db: db}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	args := append([]any{
		m.ClientID, m.CompanyID, m.Name, m.Email, m.Phone, m.Address, m.TaxID, m.Notes,
	}, mapping.AuditInsertArgs(m.AuditFields)...)
	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.NewAppError(409, "client "+m.ClientID+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save client "+m.ClientID, err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1 AND company_id = $2;`
	rows, _ := r.db.Query(ctx, query, clientID, companyID)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, lookupError(err, apperrors.ErrClientNotFound, "failed to find client "+clientID)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, companyID string, filter domain.ClientFilter, limit int, nextToken *string) ([]domain.Client, *string, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1`
	args := []any{companyID}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += " AND (name ILIKE $" + n + " OR email ILIKE $" + n + ")"
	}
	query, args, err := appendKeyset(query, args, "client_id", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list clients", err)
	}
	ms, next := trimPage(ms, limit, func(m models.Client) (time.Time, string) { return m.CreatedAt, m.ClientID })
	return mapping.ToDomainClientSlice(ms), next, nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET name = $3, email = $4, phone = $5, address = $6, tax_id = $7, notes = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE client_id = $1 AND company_id = $2;
	`
	args := append([]any{
		m.ClientID, m.CompanyID, m.Name, m.Email, m.Phone, m.Address, m.TaxID, m.Notes,
	}, mapping.AuditUpdateArgs(m.AuditFields)...)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update client "+m.ClientID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, companyID, clientID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE client_id = $1 AND company_id = $2;`, clientID, companyID)
	if err != nil {
		if isForeignKeyViolation(err, "invoices_client_id_fkey") {
			return apperrors.ErrClientInUse
		}
		return lookupError(err, apperrors.ErrClientNotFound, "failed to delete client "+clientID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}
