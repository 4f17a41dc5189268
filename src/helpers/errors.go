package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sp500-dashboard/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

// DashboardError is the common base of every classified failure.
type DashboardError struct {
	Message string
	Cause   error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// FetchError reports that a remote source (catalog or price provider) failed
// or returned content that could not be parsed.
type FetchError struct {
	DashboardError
	Source string
}

// EmptyInputError reports a reduction over a history with no rows.
type EmptyInputError struct{ DashboardError }

// SelectionMismatchError reports a symbol that the catalog does not list.
type SelectionMismatchError struct {
	DashboardError
	Symbol string
}

type ConfigurationError struct{ DashboardError }
type DatabaseError struct{ DashboardError }

// -----------------------------------------------------------------------------

func NewFetchError(source, message string, cause error) *FetchError {
	return &FetchError{DashboardError: DashboardError{Message: message, Cause: cause}, Source: source}
}

func NewEmptyInputError(message string) *EmptyInputError {
	return &EmptyInputError{DashboardError{Message: message}}
}

func NewSelectionMismatchError(symbol string) *SelectionMismatchError {
	return &SelectionMismatchError{
		DashboardError: DashboardError{Message: fmt.Sprintf("symbol %q is not an index member", symbol)},
		Symbol:         symbol,
	}
}

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{DashboardError{Message: message, Cause: cause}}
}

func NewDatabaseError(message string, cause error) *DatabaseError {
	return &DatabaseError{DashboardError{Message: message, Cause: cause}}
}

// -----------------------------------------------------------------------------

// Kind names the error class for wire messages.
func Kind(err error) string {
	var fetchErr *FetchError
	var emptyErr *EmptyInputError
	var selErr *SelectionMismatchError
	var cfgErr *ConfigurationError
	var dbErr *DatabaseError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &emptyErr):
		return "empty_input"
	case errors.As(err, &selErr):
		return "selection_mismatch"
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &dbErr):
		return "database"
	default:
		return "internal"
	}
}

// -----------------------------------------------------------------------------

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case "fetch":
		return http.StatusBadGateway
	case "empty_input":
		return http.StatusUnprocessableEntity
	case "selection_mismatch":
		return http.StatusNotFound
	case "configuration":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn up to attempts times, doubling the delay after each
// failure. It stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(baseDelay * (1 << attempt)):
		}
	}
	return lastErr
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

type ErrorHandler struct {
	Logger *logger.Logger
}

func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{
		Logger: logger.NewLogger("ErrorHandler"),
	}
}

// -----------------------------------------------------------------------------

// Handle logs err with its class. Selection mismatches are expected user
// input and are logged as warnings.
func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	switch Kind(err) {
	case "selection_mismatch", "empty_input":
		e.Logger.Warning("%s in %s: %v", Kind(err), context, err)
	default:
		e.Logger.Error("%s error in %s: %v", Kind(err), context, err)
	}
}
