package repositories

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client of the given company. A client of another
	// company is reported as apperrors.ErrClientNotFound.
	FindClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error)

	// ListClients retrieves a page of clients ordered newest first.
	// It returns the clients, a token for the next page, and an error.
	ListClients(ctx context.Context, companyID string, filter domain.ClientFilter, limit int, nextToken *string) ([]domain.Client, *string, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates an existing client's details.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client. Fails with apperrors.ErrClientInUse when invoices reference it.
	DeleteClient(ctx context.Context, companyID, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
