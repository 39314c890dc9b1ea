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

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new client service with the provided options
func NewClientService(repo portsrepo.ClientRepositoryFacade, options ...ServiceOption) portssvc.ClientSvcFacade {
	svc := &clientService{BaseService: newBaseService(), clientRepo: repo}
	svc.apply(options)
	return svc
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, companyID string, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client := domain.Client{
		ClientID:    uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		TaxID:       req.TaxID,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", "client_id", client.ClientID)
		return nil, err
	}

	s.LogInfo(ctx, "Client created", "client_id", client.ClientID)
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, companyID, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, companyID, clientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find client", "client_id", clientID)
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, companyID string, params dto.ListClientsParams) ([]domain.Client, *string, error) {
	clients, next, err := s.clientRepo.ListClients(ctx, companyID, domain.ClientFilter{Search: params.Search}, pagination.ClampLimit(params.Limit), params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list clients")
		}
		return nil, nil, err
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, next, nil
}

func (s *clientService) UpdateClient(ctx context.Context, companyID, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client, err := s.GetClientByID(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.TaxID != nil {
		client.TaxID = *req.TaxID
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	client.Touch(userID, s.now())

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", "client_id", clientID)
		return nil, err
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, companyID, clientID string) error {
	if err := s.clientRepo.DeleteClient(ctx, companyID, clientID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to delete client", "client_id", clientID)
		}
		return err
	}
	s.LogInfo(ctx, "Client deleted", "client_id", clientID)
	return nil
}
