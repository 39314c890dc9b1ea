package dto

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
)

// CreateClientRequest defines the data needed to create a new client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
	TaxID   string `json:"taxId" validate:"max=50"`
	Notes   string `json:"notes"`
}

// Validate checks the request in one pass.
func (r CreateClientRequest) Validate() error { return ValidateStruct(r) }

// UpdateClientRequest defines the data allowed for updating a client.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	TaxID   *string `json:"taxId" validate:"omitempty,max=50"`
	Notes   *string `json:"notes"`
}

// Validate checks the request in one pass.
func (r UpdateClientRequest) Validate() error { return ValidateStruct(r) }

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	TaxID         string    `json:"taxId"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ClientID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		TaxID:         c.TaxID,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Search    string  `form:"search"`
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToListClientsResponse converts a page of domain clients.
func ToListClientsResponse(clients []domain.Client, nextToken *string) ListClientsResponse {
	res := make([]ClientResponse, len(clients))
	for i := range clients {
		res[i] = ToClientResponse(&clients[i])
	}
	return ListClientsResponse{Clients: res, NextToken: nextToken}
}
