package interfaces

import (
	"context"

	"sp500-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for the selection archive.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveCatalog stores a membership snapshot keyed by its fetch time.
	SaveCatalog(ctx context.Context, catalog *models.MCatalog) error

	// -----------------------------------------------------------------------------

	// SavePriceHistory upserts the daily bars of a fetched history.
	SavePriceHistory(ctx context.Context, history *models.MPriceHistory) error

	// -----------------------------------------------------------------------------

	// SaveRangeSummary records the aggregates computed for a selection.
	SaveRangeSummary(ctx context.Context, symbol string, window models.MWindow, summary models.MRangeSummary) error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
