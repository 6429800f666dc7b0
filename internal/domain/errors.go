package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the authenticated user does not own the trip
// being read or modified. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// Validation kinds. Each wraps ErrValidation, so errors.Is(err, ErrValidation)
// holds for all of them.
var (
	ErrInvalidDateRange     = fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	ErrEmptyDestinationList = fmt.Errorf("%w: at least one destination is required", ErrValidation)
	ErrInvalidStayLength    = fmt.Errorf("%w: invalid stay length", ErrValidation)
	ErrEmptyOrBlankName     = fmt.Errorf("%w: name must not be blank", ErrValidation)
)

// FieldError ties a validation failure to the input field that caused it.
// Field uses the request's JSON naming, e.g. "destinations[1].days_to_stay".
type FieldError struct {
	Field string
	Err   error
}

// Invalid returns a *FieldError for field wrapping kind.
func Invalid(field string, kind error) *FieldError {
	return &FieldError{Field: field, Err: kind}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
