package models

import "time"

// MPriceBar is one daily observation of the price history table.
// Missing provider values are carried as NaN.
type MPriceBar struct {
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	Dividends   float64   `json:"dividends"`
	StockSplits float64   `json:"stock_splits"`
}

// MPriceHistory is the fetched price table for one (symbol, window) pair,
// ordered by ascending date.
type MPriceHistory struct {
	Symbol    string      `json:"symbol"`
	Window    MWindow     `json:"window"`
	Currency  string      `json:"currency,omitempty"`
	Exchange  string      `json:"exchange,omitempty"`
	Bars      []MPriceBar `json:"bars"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Len returns the number of rows.
func (h *MPriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Bars)
}
