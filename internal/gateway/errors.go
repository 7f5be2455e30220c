package gateway

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyMember = errors.New("already a member")
	ErrEmailTaken    = errors.New("email already registered")
	ErrValidation    = errors.New("validation failed")
	ErrUnavailable   = errors.New("service unavailable")
	ErrServer        = errors.New("server error")
	ErrNoSession     = errors.New("not signed in")
)

// errorBody is the JSON error envelope returned by the API.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// APIError is a non-2xx response. It unwraps to one of the sentinels above.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string

	kind error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, e.kind)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.kind }

// NewAPIError builds the error a response with this status and code maps to.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message, kind: kindFor(status, code)}
}

func newAPIError(status int, body *errorBody) *APIError {
	if body == nil {
		return NewAPIError(status, "", "")
	}
	e := NewAPIError(status, body.Code, body.Error)
	e.RequestID = body.RequestID
	return e
}

func kindFor(status int, code string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		if code == "email_taken" {
			return ErrEmailTaken
		}
		return ErrAlreadyMember
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return ErrServer
	}
}

// Message returns the text to show a user for err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
