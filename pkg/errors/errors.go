package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Match them with errors.Is; every *Error reports its Kind.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrTooManyRequests = errors.New("too many requests")
	ErrStorage         = errors.New("storage unavailable")
	ErrUpstream        = errors.New("upstream failure")
)

// Error is a classified failure. Message is safe to return to clients;
// Err is the internal cause and is only logged.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func TooManyRequests(message string) error {
	return &Error{Kind: ErrTooManyRequests, Message: message}
}

// Storage classifies a persistence failure. op names the operation for logs.
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Message: "failed to " + op, Err: err}
}

// Upstream classifies a failure of an external collaborator.
func Upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Message: "failed to " + op, Err: err}
}

// APIError is the JSON body returned for failed requests.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewAPIError(message string) *APIError {
	return &APIError{Success: false, Message: message}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message for err. Unclassified
// errors never leak their text.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
