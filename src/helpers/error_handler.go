package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market-analyzer/src/logger"
)

// -----------------------------------------------------------------------------
// Error Kinds
// -----------------------------------------------------------------------------

var (
	ErrDataUnavailable          = errors.New("data unavailable")
	ErrInsufficientHistory      = errors.New("insufficient history")
	ErrInsufficientPreparedData = errors.New("insufficient prepared data")
	ErrPartialForecast          = errors.New("partial forecast")
	ErrTotalForecast            = errors.New("forecast failed")
	ErrDuplicateUser            = errors.New("duplicate user")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrValidation               = errors.New("validation failed")
	ErrUnauthorized             = errors.New("unauthorized")
)

// -----------------------------------------------------------------------------
// Custom Error Type
// -----------------------------------------------------------------------------

// AnalyzerError carries a kind (one of the sentinels above), a message fit
// for end users and an optional underlying cause.
type AnalyzerError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *AnalyzerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalyzerError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// -----------------------------------------------------------------------------

// NewError builds an AnalyzerError of the given kind.
func NewError(kind error, message string, cause error) *AnalyzerError {
	return &AnalyzerError{Kind: kind, Message: message, Cause: cause}
}

// -----------------------------------------------------------------------------

// KindOf returns the sentinel kind of err, or nil for foreign errors.
func KindOf(err error) error {
	var ae *AnalyzerError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return nil
}

// -----------------------------------------------------------------------------

// UserMessage returns the end-user text for err.
func UserMessage(err error) string {
	var ae *AnalyzerError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred"
}

// -----------------------------------------------------------------------------

// KindName is the stable machine-readable name used in API responses.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrDataUnavailable:
		return "data_unavailable"
	case ErrInsufficientHistory:
		return "insufficient_history"
	case ErrInsufficientPreparedData:
		return "insufficient_prepared_data"
	case ErrPartialForecast:
		return "partial_forecast"
	case ErrTotalForecast:
		return "total_forecast_failure"
	case ErrDuplicateUser:
		return "duplicate_user"
	case ErrInvalidCredentials:
		return "invalid_credentials"
	case ErrValidation:
		return "validation_error"
	case ErrUnauthorized:
		return "unauthorized"
	default:
		return "internal_error"
	}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to maxRetries+1 times with exponential backoff.
// Errors of kind ErrDataUnavailable are final and are not retried.
func RetryWithBackoff[T any](ctx context.Context, log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if errors.Is(err, ErrDataUnavailable) || attempt == maxRetries {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries+1, operation, err, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
