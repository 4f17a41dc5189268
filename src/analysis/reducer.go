package analysis

import (
	"fmt"

	"sp500-dashboard/src/analysis/core"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/models"
)

type columns struct {
	high, low, close, volume, dividends, splits []float64
}

// -----------------------------------------------------------------------------

func extractColumns(history *models.MPriceHistory) columns {
	n := history.Len()
	c := columns{
		high:      make([]float64, n),
		low:       make([]float64, n),
		close:     make([]float64, n),
		volume:    make([]float64, n),
		dividends: make([]float64, n),
		splits:    make([]float64, n),
	}
	for i, bar := range history.Bars {
		c.high[i] = bar.High
		c.low[i] = bar.Low
		c.close[i] = bar.Close
		c.volume[i] = bar.Volume
		c.dividends[i] = bar.Dividends
		c.splits[i] = bar.StockSplits
	}
	return c
}

// -----------------------------------------------------------------------------

// RangeLabel is the row label of a summary, e.g. "1 year Range".
func RangeLabel(windowLabel string) string {
	return windowLabel + " Range"
}

// -----------------------------------------------------------------------------

// ReduceRange computes the scalar aggregates over every row of history. The
// window only labels the result; the rows were already bounded by the fetch.
func ReduceRange(history *models.MPriceHistory, windowLabel string) (models.MRangeSummary, error) {
	if history.Len() == 0 {
		return models.MRangeSummary{}, helpers.NewEmptyInputError(
			fmt.Sprintf("price history for %q has no rows", windowLabel))
	}

	c := extractColumns(history)
	high, _ := core.Max(c.high)
	low, _ := core.Min(c.low)
	maxVolume, _ := core.Max(c.volume)
	minVolume, _ := core.Min(c.volume)
	maxDividends, _ := core.Max(c.dividends)
	maxSplit, _ := core.Max(c.splits)

	return models.MRangeSummary{
		Label:         RangeLabel(windowLabel),
		High:          high,
		Low:           low,
		MaxVolume:     maxVolume,
		MinVolume:     minVolume,
		MaxDividends:  maxDividends,
		SplitOccurred: core.SplitOccurred(maxSplit),
	}, nil
}
