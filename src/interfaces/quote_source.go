package interfaces

import (
	"context"

	"stock-insight/src/models"
)

// -----------------------------------------------------------------------------
// IQuoteSource fetches and normalizes the daily series of one symbol.
// -----------------------------------------------------------------------------

type IQuoteSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch issues a single request for symbol and returns the raw body object.
	Fetch(ctx context.Context, symbol, apiKey string) (models.MRawQuoteResponse, error)

	// -----------------------------------------------------------------------------

	// Normalize converts a raw body into a sorted series.
	Normalize(raw models.MRawQuoteResponse) (models.MSeries, error)
}
