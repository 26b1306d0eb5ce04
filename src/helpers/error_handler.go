package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// -----------------------------------------------------------------------------
// Error Kinds
// -----------------------------------------------------------------------------

// ErrorKind is the machine-readable category returned to API callers.
type ErrorKind string

const (
	KindInvalidSymbol     ErrorKind = "invalid_symbol"
	KindCredentialMissing ErrorKind = "credential_missing"
	KindTransport         ErrorKind = "transport_error"
	KindUnexpectedShape   ErrorKind = "unexpected_shape"
	KindParse             ErrorKind = "parse_error"
	KindEmptySeries       ErrorKind = "empty_series"
	KindInsufficientData  ErrorKind = "insufficient_data"
	KindRender            ErrorKind = "render_error"
	KindInternal          ErrorKind = "internal"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type StockInsightError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *StockInsightError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StockInsightError) Unwrap() error {
	return e.Cause
}

// Distinct error types so callers can errors.As on a specific failure.
type ValidationError struct{ StockInsightError }
type CredentialMissingError struct{ StockInsightError }
type TransportError struct {
	StockInsightError
	StatusCode int // 0 when no response was received
}
type UnexpectedShapeError struct {
	StockInsightError
	UpstreamNote string
}
type ParseError struct{ StockInsightError }
type EmptySeriesError struct{ StockInsightError }
type InsufficientDataError struct{ StockInsightError }
type RenderError struct{ StockInsightError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewValidationError(msg string) error {
	return &ValidationError{StockInsightError{Kind: KindInvalidSymbol, Message: msg}}
}

func NewCredentialMissingError(msg string, cause error) error {
	return &CredentialMissingError{StockInsightError{Kind: KindCredentialMissing, Message: msg, Cause: cause}}
}

func NewTransportError(msg string, status int, cause error) error {
	return &TransportError{
		StockInsightError: StockInsightError{Kind: KindTransport, Message: msg, Cause: cause},
		StatusCode:        status,
	}
}

func NewUnexpectedShapeError(msg, upstreamNote string) error {
	return &UnexpectedShapeError{
		StockInsightError: StockInsightError{Kind: KindUnexpectedShape, Message: msg},
		UpstreamNote:      upstreamNote,
	}
}

func NewParseError(msg string, cause error) error {
	return &ParseError{StockInsightError{Kind: KindParse, Message: msg, Cause: cause}}
}

func NewEmptySeriesError(msg string) error {
	return &EmptySeriesError{StockInsightError{Kind: KindEmptySeries, Message: msg}}
}

func NewInsufficientDataError(msg string) error {
	return &InsufficientDataError{StockInsightError{Kind: KindInsufficientData, Message: msg}}
}

func NewRenderError(msg string, cause error) error {
	return &RenderError{StockInsightError{Kind: KindRender, Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// KindOf returns the kind of the first StockInsightError in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var kinded interface{ kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.kind()
	}
	return KindInternal
}

func (e *StockInsightError) kind() ErrorKind { return e.Kind }

// -----------------------------------------------------------------------------

// HTTPStatus maps an error kind to the status returned by the HTTP surface.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindInvalidSymbol:
		return http.StatusBadRequest
	case KindTransport, KindUnexpectedShape, KindParse:
		return http.StatusBadGateway
	case KindEmptySeries, KindInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

// PublicMessage is the human readable message for API callers.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindUnexpectedShape:
		return "Failed; invalid symbol or exceeded API rate limit"
	case KindCredentialMissing:
		return "API key is not configured"
	case KindTransport:
		return "Failed to reach the market data provider"
	case KindInternal:
		return "internal error"
	default:
		return err.Error()
	}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff runs fn once plus up to retries more times with exponential backoff.
// It stops early when ctx is done or fn returns a non-retryable error.
func RetryWithBackoff[T any](
	ctx context.Context,
	retries int,
	baseDelay time.Duration,
	retryable func(error) bool,
	fn func(attempt int) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * (1 << (attempt - 1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		res, err := fn(attempt)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if retryable != nil && !retryable(err) {
			break
		}
	}

	return zero, lastErr
}
