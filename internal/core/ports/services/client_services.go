package services

import (
	"context"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/dto"
)

// ClientReaderSvc defines read operations for clients
type ClientReaderSvc interface {
	GetClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, companyID string, params dto.ListClientsParams) ([]domain.Client, *string, error)
}

// ClientWriterSvc defines write operations for clients
type ClientWriterSvc interface {
	CreateClient(ctx context.Context, companyID string, req dto.CreateClientRequest, userID string) (*domain.Client, error)
	UpdateClient(ctx context.Context, companyID, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error)
	DeleteClient(ctx context.Context, companyID, clientID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
