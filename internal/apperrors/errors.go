package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError marks input that fails local checks. It never represents a
// collaborator response; callers must not retry without changing the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransportError covers network failures, timeouts, and non-2xx collaborator
// responses that are not quota-related. Retryable by re-invoking the step.
type TransportError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TransportError) Unwrap() error { return e.Cause }

func NewTransport(cause error, format string, args ...any) *TransportError {
	return &TransportError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// QuotaError means the collaborator reported rate limiting (429) or exhausted
// credits (402). Distinct from TransportError so the UI can suggest waiting
// or configuring credentials instead of a blind retry.
type QuotaError struct {
	Message    string
	StatusCode int
}

func (e *QuotaError) Error() string { return e.Message }

func QuotaFromStatus(status int) *QuotaError {
	switch status {
	case http.StatusPaymentRequired:
		return &QuotaError{Message: "AI credits exhausted. Please add credits to continue.", StatusCode: status}
	default:
		return &QuotaError{Message: "Rate limit exceeded. Please try again later.", StatusCode: status}
	}
}

// PersistenceError marks a failed durable write. The in-memory workflow state
// stays authoritative for the session; callers log and continue.
type PersistenceError struct {
	EntityKind string
	Cause      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.EntityKind, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// HTTPStatus maps the taxonomy onto response codes for the handler layer.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsQuota(err):
		return http.StatusTooManyRequests
	case IsTransport(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
