package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict with current state")

// ErrUnavailable indicates a transient failure the caller may retry later.
var ErrUnavailable = errors.New("service temporarily unavailable")

// ErrPersistence indicates that the underlying store failed or aborted a transaction.
var ErrPersistence = errors.New("persistence failure")

// Invoicing error kinds. Each wraps one of the generic errors above so handlers
// can branch either on the precise kind or on the broad category.
var (
	ErrInvalidLineItem         = fmt.Errorf("%w: invalid line item", ErrValidation)
	ErrValidationFailed        = fmt.Errorf("%w: invalid request", ErrValidation)
	ErrClientNotFound          = fmt.Errorf("%w: client not found", ErrNotFound)
	ErrProductNotFound         = fmt.Errorf("%w: product not found", ErrNotFound)
	ErrInvoiceNotFound         = fmt.Errorf("%w: invoice not found", ErrNotFound)
	ErrPaymentNotFound         = fmt.Errorf("%w: payment not found", ErrNotFound)
	ErrDuplicateIdentifier     = fmt.Errorf("%w: invoice number already taken", ErrDuplicate)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)
	ErrClientInUse             = fmt.Errorf("%w: client is referenced by invoices", ErrConflict)
	ErrServiceUnavailable      = fmt.Errorf("%w: could not allocate an invoice number", ErrUnavailable)
)

// Kind returns the machine-readable name of the most specific error kind wrapped by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLineItem):
		return "InvalidLineItem"
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrValidation):
		return "ValidationFailed"
	case errors.Is(err, ErrClientNotFound):
		return "ClientNotFound"
	case errors.Is(err, ErrProductNotFound):
		return "ProductNotFound"
	case errors.Is(err, ErrInvoiceNotFound):
		return "InvoiceNotFound"
	case errors.Is(err, ErrPaymentNotFound):
		return "PaymentNotFound"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrDuplicateIdentifier):
		return "DuplicateIdentifier"
	case errors.Is(err, ErrDuplicate):
		return "Duplicate"
	case errors.Is(err, ErrInvalidStatusTransition):
		return "InvalidStatusTransition"
	case errors.Is(err, ErrClientInUse):
		return "ClientInUse"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrServiceUnavailable), errors.Is(err, ErrUnavailable):
		return "ServiceUnavailable"
	default:
		return "PersistenceFailure"
	}
}

// Violation describes a single failed validation rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violation found in one validation pass.
type ValidationError struct {
	Kind       error
	Violations []Violation
}

// NewValidationError builds a ValidationError of the given kind. A nil kind defaults to ErrValidationFailed.
func NewValidationError(kind error, violations ...Violation) *ValidationError {
	if kind == nil {
		kind = ErrValidationFailed
	}
	return &ValidationError{Kind: kind, Violations: violations}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	if len(parts) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// AppError wraps a lower-level error with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. Code 5xx errors are treated as persistence failures.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap exposes the wrapped error and, for server-side codes, ErrPersistence.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Code >= 500 {
		errs = append(errs, ErrPersistence)
	}
	return errs
}
