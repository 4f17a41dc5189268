package analysis

import (
	"fmt"

	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
)

// MSelectionResult groups the records derived from one (symbol, window) pair.
type MSelectionResult struct {
	Company  models.MCompanyRecord
	Summary  models.MRangeSummary
	Chart    models.MChartSpec
	Download models.MDownload
}

// -----------------------------------------------------------------------------

type AnalysisFacade struct {
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(log *logger.Logger) *AnalysisFacade {
	if log == nil {
		log = logger.NewLogger("Analysis")
	}
	return &AnalysisFacade{Logger: log}
}

// -----------------------------------------------------------------------------

// Analyze derives every record of a selection from the same catalog and
// history so the results never mix two selections.
func (a *AnalysisFacade) Analyze(catalog *models.MCatalog, history *models.MPriceHistory, window models.MWindow) (MSelectionResult, error) {
	symbol := ""
	if history != nil {
		symbol = history.Symbol
	}

	summary, err := ReduceRange(history, window.Label)
	if err != nil {
		return MSelectionResult{}, fmt.Errorf("summarize %s: %w", symbol, err)
	}

	chart, err := BuildChartSpec(history, window.Label)
	if err != nil {
		return MSelectionResult{}, fmt.Errorf("chart %s: %w", symbol, err)
	}

	result := MSelectionResult{
		Company:  SelectCompany(catalog, symbol),
		Summary:  summary,
		Chart:    chart,
		Download: Download(symbol, window),
	}

	a.Logger.Debug("Analyzed %s (%s): %d rows, high=%v low=%v", symbol, window.Label, history.Len(), summary.High, summary.Low)
	return result, nil
}
