package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnsupportedProvider is matched by every UnsupportedProviderError.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// UnsupportedProviderError is returned for unknown provider identifiers.
// Construction and metadata lookups word the message differently.
type UnsupportedProviderError struct {
	Provider string
	Create   bool
}

func (e *UnsupportedProviderError) Error() string {
	if e.Create {
		return "Unsupported AI provider: " + e.Provider
	}
	return "Unsupported provider: " + e.Provider
}

func (e *UnsupportedProviderError) Is(target error) bool {
	return target == ErrUnsupportedProvider
}

// ProviderError is the typed error every text generator returns.
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Code       string
	Retryable  bool
	Attempts   int
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.Operation != "" {
		b.WriteString(" ")
		b.WriteString(e.Operation)
	}
	b.WriteString(" failed")

	var details []string
	if e.StatusCode != 0 {
		details = append(details, fmt.Sprintf("status %d", e.StatusCode))
	}
	if e.Code != "" {
		details = append(details, "code "+e.Code)
	}
	if e.Attempts > 1 {
		details = append(details, fmt.Sprintf("after %d attempts", e.Attempts))
	}
	if len(details) > 0 {
		b.WriteString(" (" + strings.Join(details, ", ") + ")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError classifies an HTTP status into a ProviderError.
func NewProviderError(provider, operation string, status int, code string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Operation:  operation,
		StatusCode: status,
		Code:       code,
		Retryable:  RetryableStatus(status),
		Err:        err,
	}
}

// RetryableStatus reports whether an HTTP status is worth another attempt.
// Zero means no response was received, which is treated as a transport failure.
func RetryableStatus(status int) bool {
	switch {
	case status == 0:
		return true
	case status == http.StatusRequestTimeout,
		status == http.StatusConflict,
		status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// IsRetryable decides whether the retry loop should try again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}
