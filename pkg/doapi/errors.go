package doapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingCredential is returned before any network call when no token is set.
var ErrMissingCredential = errors.New("no API token set")

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrNotConfirmed        = errors.New("action not confirmed")
	ErrUnknownAction       = errors.New("unknown droplet action")
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Status     string `json:"status"      yaml:"status"`
	ID         string `json:"id"          yaml:"id"`
	Message    string `json:"message"     yaml:"message"`
}

// Error implements the error interface. The text is the resolved message only.
func (e *APIError) Error() string {
	return e.Message
}

// TransportError wraps a connectivity failure. Its text is the cause's text, unmodified.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is bad input detected locally, before any network call.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// errorPayload is the provider's error body. Both fields are optional and may
// hold non-string values, which are ignored.
type errorPayload struct {
	ID      interface{} `json:"id"`
	Message interface{} `json:"message"`
}

// ParseAPIError builds an APIError from a non-2xx status and its raw body.
// The message prefers the payload's "message", then its "id", then the status line.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     StatusLine(statusCode),
	}

	var payload errorPayload

	// Unparseable bodies are treated as an empty object.
	_ = json.Unmarshal(body, &payload)

	message, _ := payload.Message.(string)
	id, _ := payload.ID.(string)
	apiErr.ID = id

	switch {
	case message != "":
		apiErr.Message = message
	case id != "":
		apiErr.Message = id
	default:
		apiErr.Message = apiErr.Status
	}

	return apiErr
}

// StatusLine formats "<status> <statusText>", e.g. "401 Unauthorized". A
// status without a known text is just the code.
func StatusLine(statusCode int) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)))
}

// Message returns the user-visible text of err: the innermost typed error's
// message when one is wrapped, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	validationErr := &ValidationError{}
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	transportErr := &TransportError{}
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}

	if errors.Is(err, ErrMissingCredential) {
		return ErrMissingCredential.Error()
	}

	return err.Error()
}

// IsMissingCredential reports whether err is caused by an empty credential.
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsAPIError reports whether err is a non-2xx provider response.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	validationErr := &ValidationError{}

	return errors.As(err, &validationErr)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}
