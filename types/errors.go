package types

import (
	"errors"
	"fmt"
)

// Common errors for endpoint operations.
var (
	ErrNotFound    = errors.New("download not found")
	ErrEmptyAPIKey = errors.New("api key cannot be empty")
)

// CodeBadToken is the service error code returned for a rejected OAuth access token.
const CodeBadToken = "BAD_TOKEN"

// AuthenticationError is returned when no usable credential is configured.
type AuthenticationError struct {
	Message string
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return "authentication error: " + e.Message
}

// AccessTokenExpiredError signals that the OAuth access token was rejected
// and has to be refreshed before the request is resubmitted.
type AccessTokenExpiredError struct {
	Detail string
}

// Error implements the error interface.
func (e *AccessTokenExpiredError) Error() string {
	if e.Detail != "" {
		return "access token expired: " + e.Detail
	}
	return "access token expired"
}

// ServiceError is a failure explicitly reported by the TorBox API through its
// {"error": ..., "detail": ...} envelope.
type ServiceError struct {
	Code       string
	Detail     string
	StatusCode int
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

// Is matches another *ServiceError with the same code, so
// errors.Is(err, &ServiceError{Code: "NOT_FOUND"}) works.
func (e *ServiceError) Is(target error) bool {
	var t *ServiceError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// TransportError covers network failures and non-2xx responses whose body is
// not a service error envelope.
type TransportError struct {
	StatusCode int    // 0 when no response was received
	Body       string // raw response body, if any
	Cause      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	switch {
	case e.Cause != nil:
		return "transport error: " + e.Cause.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("transport error: status %d: %s", e.StatusCode, e.Body)
	default:
		return "transport error: " + e.Body
	}
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DeserializationError is returned when a successful response body cannot be
// decoded into the expected type.
type DeserializationError struct {
	Body  string
	Cause error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("unable to deserialize response: %v. Response was: %s", e.Cause, e.Body)
}

// Unwrap returns the underlying error.
func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// IsKnown reports whether err is one of the classified errors the request
// engine never retries.
func IsKnown(err error) bool {
	var authErr *AuthenticationError
	var expiredErr *AccessTokenExpiredError
	var serviceErr *ServiceError
	return errors.As(err, &authErr) || errors.As(err, &expiredErr) || errors.As(err, &serviceErr)
}
