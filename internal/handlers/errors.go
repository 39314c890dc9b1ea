package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusByKind maps machine-readable error kinds to HTTP status codes.
var statusByKind = map[string]int{
	"InvalidLineItem":         http.StatusBadRequest,
	"ValidationFailed":        http.StatusBadRequest,
	"ClientNotFound":          http.StatusNotFound,
	"ProductNotFound":         http.StatusUnprocessableEntity,
	"InvoiceNotFound":         http.StatusNotFound,
	"PaymentNotFound":         http.StatusNotFound,
	"NotFound":                http.StatusNotFound,
	"DuplicateIdentifier":     http.StatusConflict,
	"Duplicate":               http.StatusConflict,
	"InvalidStatusTransition": http.StatusConflict,
	"ClientInUse":             http.StatusConflict,
	"Conflict":                http.StatusConflict,
	"ServiceUnavailable":      http.StatusServiceUnavailable,
	"PersistenceFailure":      http.StatusInternalServerError,
}

// statusOverrides changes the status of selected kinds for one endpoint.
type statusOverrides map[string]int

// invoiceWriteOverrides reports an unknown client on invoice create/update as
// an unprocessable reference rather than a missing resource.
var invoiceWriteOverrides = statusOverrides{"ClientNotFound": http.StatusUnprocessableEntity}

// respondError writes the error envelope for err and logs server-side failures.
func respondError(c *gin.Context, err error, overrides ...statusOverrides) {
	kind := apperrors.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	for _, o := range overrides {
		if s, ok := o[kind]; ok {
			status = s
		}
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	message := err.Error()
	var violations []apperrors.Violation
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		message = vErr.Kind.Error()
		violations = vErr.Violations
	}

	switch {
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		logger.Error().Err(err).Str("kind", kind).Msg("Request failed")
		message = "internal server error"
	case status == http.StatusServiceUnavailable:
		logger.Warn().Err(err).Msg("Request failed with a retryable error")
		c.Header("Retry-After", "1")
	default:
		logger.Debug().Err(err).Str("kind", kind).Msg("Request rejected")
	}

	c.JSON(status, dto.NewErrorResponse(kind, message, violations...))
}

// respondBindError reports a body or query that could not be decoded.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn().Err(err).Msg("Failed to bind request")
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ValidationFailed", "invalid request format: "+err.Error()))
}

// identity returns the authenticated user and company or writes 401.
func identity(c *gin.Context) (userID, companyID string, ok bool) {
	userID, okUser := middleware.GetUserIDFromContext(c)
	companyID, okCompany := middleware.GetCompanyIDFromContext(c)
	if !okUser || !okCompany {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error().Msg("Caller identity not found in context")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized", "Unauthorized"))
		return "", "", false
	}
	return userID, companyID, true
}
