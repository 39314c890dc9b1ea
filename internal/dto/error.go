package dto

import "github.com/SscSPs/invoicing_app/internal/apperrors"

// ErrorBody is the machine-readable part of every error response.
type ErrorBody struct {
	Kind       string                `json:"kind"`
	Message    string                `json:"message"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

// ErrorResponse wraps ErrorBody under the "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds an ErrorResponse.
func NewErrorResponse(kind, message string, violations ...apperrors.Violation) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Kind: kind, Message: message, Violations: violations}}
}
