package analysis

import (
	"fmt"

	"sp500-dashboard/src/analysis/core"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/models"
)

const ChartTitle = "Stock Closing Value by Day"

// TrendStyle is the fixed look of the closing-price chart.
var TrendStyle = models.MChartStyle{
	Kind:          "area",
	ShowXGrid:     false,
	ShowYGrid:     false,
	PlotBGColor:   "white",
	TitleX:        0.5,
	TitleColor:    "gray",
	TitleFontSize: 24,
}

// -----------------------------------------------------------------------------

// BuildChartSpec plots Close in table order. The y-axis envelope comes from
// the High column: 0.5 x min(High) to 1.25 x max(High).
func BuildChartSpec(history *models.MPriceHistory, windowLabel string) (models.MChartSpec, error) {
	if history.Len() == 0 {
		return models.MChartSpec{}, helpers.NewEmptyInputError(
			fmt.Sprintf("price history for %q has no rows", windowLabel))
	}

	c := extractColumns(history)
	minHigh, _ := core.Min(c.high)
	maxHigh, _ := core.Max(c.high)
	low, high := core.PaddedRange(minHigh, maxHigh)

	series := make([]models.MChartPoint, len(history.Bars))
	for i, bar := range history.Bars {
		series[i] = models.MChartPoint{Date: bar.Date, Close: bar.Close}
	}

	return models.MChartSpec{
		Heading: windowLabel + " Trend",
		Title:   ChartTitle,
		Series:  series,
		YRange:  models.MAxisRange{Low: low, High: high},
		Style:   TrendStyle,
	}, nil
}
