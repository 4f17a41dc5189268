package interfaces

import (
	"context"

	"sp500-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// ICatalogSource fetches the index membership table.
// -----------------------------------------------------------------------------

type ICatalogSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchCatalog downloads and parses the constituents table.
	FetchCatalog(ctx context.Context) (*models.MCatalog, error)
}

// -----------------------------------------------------------------------------
// IHistorySource fetches daily price history for one symbol.
// -----------------------------------------------------------------------------

type IHistorySource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchHistory returns the daily bars covering window, oldest first.
	FetchHistory(ctx context.Context, symbol string, window models.MWindow) (*models.MPriceHistory, error)
}
