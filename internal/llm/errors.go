package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidModel    = errors.New("invalid model")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrNoChoices       = errors.New("no choices in response")

	// ErrUnsupportedRequest is a request the provider cannot accept as shaped.
	ErrUnsupportedRequest = errors.New("unsupported request")
)

// APIError is a failure reported by an upstream provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
	retryable  bool
}

func NewAPIError(provider string, statusCode int, message string, cause error) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
		retryable:  isRetryableStatus(statusCode),
	}
}

// NewRetryableError marks a failure as transient regardless of status code
// (throttling exceptions, connection resets).
func NewRetryableError(provider string, message string, cause error) *APIError {
	return &APIError{
		Provider:  provider,
		Message:   message,
		Cause:     cause,
		retryable: true,
	}
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func (e *APIError) Retryable() bool {
	return e.retryable
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout ||
		status >= http.StatusInternalServerError
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	if errors.Is(err, ErrInvalidModel) || errors.Is(err, ErrUnknownProvider) || errors.Is(err, ErrUnsupportedRequest) {
		return false
	}

	errStr := err.Error()

	// Network errors
	return strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "unexpected EOF") ||
		strings.Contains(errStr, "i/o timeout")
}
