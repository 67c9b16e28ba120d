package eloqua

import (
	"errors"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// The transport error hierarchy is re-exported here so callers never import
// internal packages. Every API call can return one of these; match with
// errors.As or the Is* helpers.
type (
	// APIError is the base error type for all HTTP errors.
	APIError = httpx.APIError
	// Failure is one entry of a Bulk API validation failure list.
	Failure = httpx.Failure
	// AuthenticationError represents a 401 error.
	AuthenticationError = httpx.AuthenticationError
	// AuthorizationError represents a 403 error.
	AuthorizationError = httpx.AuthorizationError
	// NotFoundError represents a 404 error.
	NotFoundError = httpx.NotFoundError
	// ConflictError represents a 409 error.
	ConflictError = httpx.ConflictError
	// ValidationError represents a 400/422 error.
	ValidationError = httpx.ValidationError
	// RateLimitError represents a 429 error.
	RateLimitError = httpx.RateLimitError
	// PayloadTooLargeError represents a 413 error.
	PayloadTooLargeError = httpx.PayloadTooLargeError
	// ServerError represents a 5xx error.
	ServerError = httpx.ServerError
	// NetworkError represents a network-level error.
	NetworkError = httpx.NetworkError
	// TimeoutError represents a timeout error.
	TimeoutError = httpx.TimeoutError
	// CircuitBreakerOpenError is returned while the circuit breaker is open.
	CircuitBreakerOpenError = httpx.CircuitBreakerOpenError
)

// Sentinel errors for common conditions
var (
	// ErrNoCredentials is returned when company, username, or password is missing.
	ErrNoCredentials = errors.New("missing credentials: company, username, and password are required")

	// ErrNotConnected is returned when an API call is made before Connect
	// resolved the instance API roots.
	ErrNotConnected = httpx.ErrNotConnected
)

// IsAuthenticationError returns true if the error is a 401 error.
func IsAuthenticationError(err error) bool {
	return httpx.IsAuthenticationError(err)
}

// IsNotFoundError returns true if the error is a 404 error.
func IsNotFoundError(err error) bool {
	return httpx.IsNotFoundError(err)
}

// IsRateLimitError returns true if the error is a 429 error.
func IsRateLimitError(err error) bool {
	return httpx.IsRateLimitError(err)
}

// IsValidationError returns true if the error is a 400/422 error.
func IsValidationError(err error) bool {
	return httpx.IsValidationError(err)
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	return httpx.IsRetryable(err)
}

// AsAPIError extracts the underlying API error.
func AsAPIError(err error) (*APIError, bool) {
	return httpx.AsAPIError(err)
}
