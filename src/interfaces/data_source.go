package interfaces

import (
	"context"

	"market-analyzer/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource fetches historical bars and issuer metadata for one symbol.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// Fetch retrieves daily bars for the period (1mo, 3mo, 6mo, 1y, 2y, 5y)
	// and the issuer metadata. An unknown symbol yields ErrDataUnavailable.
	Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error)
}
