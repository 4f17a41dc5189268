package dashboard

import (
	"context"
	"fmt"

	"sp500-dashboard/src/analysis"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/utils"
)

// ICatalogProvider hands out the current catalog, cached or fresh.
type ICatalogProvider interface {
	Get(ctx context.Context) (*models.MCatalog, error)
	Refresh(ctx context.Context) (*models.MCatalog, error)
}

// -----------------------------------------------------------------------------

// Service holds what sessions share: the catalog cache, the history source and
// the optional archive and market calendar.
type Service struct {
	Catalog       ICatalogProvider
	History       interfaces.IHistorySource
	Archive       interfaces.IDatabase
	Market        *utils.MarketScheduler
	Analyzer      *analysis.AnalysisFacade
	DefaultWindow models.MWindow
	Logger        *logger.Logger
}

// -----------------------------------------------------------------------------

func NewService(catalog ICatalogProvider, history interfaces.IHistorySource, defaultWindow models.MWindow) *Service {
	return &Service{
		Catalog:       catalog,
		History:       history,
		Analyzer:      analysis.NewAnalysisFacade(nil),
		DefaultWindow: defaultWindow,
		Logger:        logger.NewLogger("DashboardService"),
	}
}

// -----------------------------------------------------------------------------

// NewSession snapshots the catalog and opens a session on it. The session has
// no view until a symbol is selected or Open is called.
func (s *Service) NewSession(ctx context.Context) (*Session, error) {
	catalog, err := s.Catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return newSession(s, catalog), nil
}

// -----------------------------------------------------------------------------

// Symbols returns the selection domain of the symbol control.
func (s *Service) Symbols(ctx context.Context) ([]string, error) {
	catalog, err := s.Catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Symbols(), nil
}

// -----------------------------------------------------------------------------

// Company looks up one catalog row without fetching any history.
func (s *Service) Company(ctx context.Context, symbol string) (models.MCompanyRecord, error) {
	catalog, err := s.Catalog.Get(ctx)
	if err != nil {
		return models.MCompanyRecord{}, err
	}
	record := analysis.SelectCompany(catalog, symbol)
	if record.Empty() {
		return record, helpers.NewSelectionMismatchError(symbol)
	}
	return record, nil
}

// -----------------------------------------------------------------------------

// Snapshot computes a one-off view for (symbol, window label).
func (s *Service) Snapshot(ctx context.Context, symbol, windowLabel string) (*Snapshot, error) {
	session, err := s.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := session.Select(ctx, symbol, windowLabel); err != nil {
		return nil, err
	}
	return session.Current(), nil
}

// -----------------------------------------------------------------------------

// ParseWindow resolves a request label, falling back to the default window
// when the request leaves it out.
func (s *Service) ParseWindow(label string) (models.MWindow, error) {
	if label == "" {
		return s.DefaultWindow, nil
	}
	w, err := models.ParseWindow(label)
	if err != nil {
		return models.MWindow{}, helpers.NewConfigurationError("invalid window selection", err)
	}
	return w, nil
}
