package analysis

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"sp500-dashboard/src/models"

	"github.com/gocarina/gocsv"
)

const (
	DownloadLabel = "Download Raw Data as CSV"
	csvDateLayout = "2006-01-02 15:04:05-07:00"
)

type csvDate time.Time

func (d csvDate) MarshalCSV() (string, error) {
	return time.Time(d).Format(csvDateLayout), nil
}

// csvFloat writes NaN as an empty cell.
type csvFloat float64

func (f csvFloat) MarshalCSV() (string, error) {
	v := float64(f)
	if math.IsNaN(v) {
		return "", nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

type csvRow struct {
	Date        csvDate  `csv:"Date"`
	Open        csvFloat `csv:"Open"`
	High        csvFloat `csv:"High"`
	Low         csvFloat `csv:"Low"`
	Close       csvFloat `csv:"Close"`
	Volume      csvFloat `csv:"Volume"`
	Dividends   csvFloat `csv:"Dividends"`
	StockSplits csvFloat `csv:"Stock Splits"`
}

// -----------------------------------------------------------------------------

// ExportCSV serializes the raw history table with a header row.
func ExportCSV(history *models.MPriceHistory) ([]byte, error) {
	rows := make([]*csvRow, 0, history.Len())
	if history != nil {
		for _, bar := range history.Bars {
			rows = append(rows, &csvRow{
				Date:        csvDate(bar.Date),
				Open:        csvFloat(bar.Open),
				High:        csvFloat(bar.High),
				Low:         csvFloat(bar.Low),
				Close:       csvFloat(bar.Close),
				Volume:      csvFloat(bar.Volume),
				Dividends:   csvFloat(bar.Dividends),
				StockSplits: csvFloat(bar.StockSplits),
			})
		}
	}

	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode price history as csv: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// CSVFileName names the download "<symbol> <window label>.csv".
func CSVFileName(symbol, windowLabel string) string {
	return symbol + " " + windowLabel + ".csv"
}

// -----------------------------------------------------------------------------

// Download describes the CSV affordance for a selection.
func Download(symbol string, window models.MWindow) models.MDownload {
	return models.MDownload{
		Label:    DownloadLabel,
		FileName: CSVFileName(symbol, window.Label),
		Help:     "Download last " + window.Label + " data",
	}
}
