package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"sp500-dashboard/src/analysis"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/models"

	"github.com/google/uuid"
)

// Snapshot is the published state of a session: a view and the history it
// was derived from. Both always belong to the same (symbol, window) pair.
type Snapshot struct {
	View    *models.MDashboardView
	History *models.MPriceHistory
}

// -----------------------------------------------------------------------------

// CSV serializes the history behind the view.
func (s *Snapshot) CSV() ([]byte, error) {
	return analysis.ExportCSV(s.History)
}

// -----------------------------------------------------------------------------

// Session is one user's dashboard. Selection changes are handled one at a
// time; a failed change leaves the previous snapshot in place.
type Session struct {
	ID string

	service *Service
	catalog *models.MCatalog

	mu      sync.Mutex
	symbol  string
	window  models.MWindow
	current atomic.Pointer[Snapshot]
}

// -----------------------------------------------------------------------------

func newSession(s *Service, catalog *models.MCatalog) *Session {
	return &Session{
		ID:      uuid.NewString(),
		service: s,
		catalog: catalog,
		window:  s.DefaultWindow,
	}
}

// -----------------------------------------------------------------------------

// Catalog returns the snapshot this session selects from.
func (s *Session) Catalog() *models.MCatalog {
	return s.catalog
}

// -----------------------------------------------------------------------------

// Current returns the last published snapshot, or nil before the first
// successful selection.
func (s *Session) Current() *Snapshot {
	return s.current.Load()
}

// -----------------------------------------------------------------------------

// View returns the last published view, or nil.
func (s *Session) View() *models.MDashboardView {
	if snap := s.current.Load(); snap != nil {
		return snap.View
	}
	return nil
}

// -----------------------------------------------------------------------------

// Selection returns the symbol and window the published view reflects.
func (s *Session) Selection() (string, models.MWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol, s.window
}

// -----------------------------------------------------------------------------

// Open selects the first symbol with the default window.
func (s *Session) Open(ctx context.Context) error {
	symbols := s.catalog.Symbols()
	if len(symbols) == 0 {
		return helpers.NewFetchError("catalog", "catalog has no symbols", nil)
	}
	return s.SelectSymbol(ctx, symbols[0])
}

// -----------------------------------------------------------------------------

// SelectSymbol changes the symbol and recomputes the view.
func (s *Session) SelectSymbol(ctx context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, symbol, s.window)
}

// -----------------------------------------------------------------------------

// SelectWindow changes the window and recomputes the view. Before any symbol
// is chosen only the window is recorded.
func (s *Session) SelectWindow(ctx context.Context, label string) error {
	w, err := models.ParseWindow(label)
	if err != nil {
		return helpers.NewConfigurationError("invalid window selection", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.symbol == "" {
		s.window = w
		return nil
	}
	return s.apply(ctx, s.symbol, w)
}

// -----------------------------------------------------------------------------

// Select changes symbol and window together.
func (s *Session) Select(ctx context.Context, symbol, windowLabel string) error {
	w, err := s.service.ParseWindow(windowLabel)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, symbol, w)
}

// -----------------------------------------------------------------------------

// Refresh refetches the history for the current selection.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.symbol == "" {
		return helpers.NewSelectionMismatchError("")
	}
	return s.apply(ctx, s.symbol, s.window)
}

// -----------------------------------------------------------------------------

// apply runs the pipeline for (symbol, window) and publishes the result.
// Callers hold s.mu.
func (s *Session) apply(ctx context.Context, symbol string, window models.MWindow) error {
	if !s.catalog.Contains(symbol) {
		return helpers.NewSelectionMismatchError(symbol)
	}

	history, err := s.service.History.FetchHistory(ctx, symbol, window)
	if err != nil {
		return err
	}
	history.Symbol = symbol

	result, err := s.service.Analyzer.Analyze(s.catalog, history, window)
	if err != nil {
		return err
	}

	view := &models.MDashboardView{
		Type:      "VIEW",
		SessionID: s.ID,
		Symbol:    symbol,
		Window:    window,
		Company:   result.Company,
		Summary:   result.Summary,
		Chart:     result.Chart,
		Download:  result.Download,
		Rows:      history.Len(),
		Timestamp: time.Now().Unix(),
	}
	view.Download.URL = fmt.Sprintf("/api/download/%s?window=%s", url.PathEscape(symbol), url.QueryEscape(window.Label))
	if s.service.Market != nil {
		view.MarketOpen = s.service.Market.IsOpenNow(history.Exchange)
	}

	s.current.Store(&Snapshot{View: view, History: history})
	s.symbol, s.window = symbol, window

	s.archive(ctx, history, window, result.Summary)
	return nil
}

// -----------------------------------------------------------------------------

func (s *Session) archive(ctx context.Context, history *models.MPriceHistory, window models.MWindow, summary models.MRangeSummary) {
	db := s.service.Archive
	if db == nil {
		return
	}
	if err := db.SavePriceHistory(ctx, history); err != nil {
		s.service.Logger.Warning("Archive price history for %s: %v", history.Symbol, err)
	}
	if err := db.SaveRangeSummary(ctx, history.Symbol, window, summary); err != nil {
		s.service.Logger.Warning("Archive range summary for %s: %v", history.Symbol, err)
	}
}
