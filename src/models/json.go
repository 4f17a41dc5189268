package models

import (
	"encoding/json"
	"math"
	"time"
)

// encoding/json rejects NaN and Inf, and histories carry NaN for gaps.
// Non-finite values are written as null.

func jsonFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// -----------------------------------------------------------------------------

func (b MPriceBar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date        time.Time `json:"date"`
		Open        *float64  `json:"open"`
		High        *float64  `json:"high"`
		Low         *float64  `json:"low"`
		Close       *float64  `json:"close"`
		Volume      *float64  `json:"volume"`
		Dividends   *float64  `json:"dividends"`
		StockSplits *float64  `json:"stock_splits"`
	}{b.Date, jsonFloat(b.Open), jsonFloat(b.High), jsonFloat(b.Low), jsonFloat(b.Close),
		jsonFloat(b.Volume), jsonFloat(b.Dividends), jsonFloat(b.StockSplits)})
}

// -----------------------------------------------------------------------------

func (s MRangeSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label         string   `json:"label"`
		High          *float64 `json:"high"`
		Low           *float64 `json:"low"`
		MaxVolume     *float64 `json:"max_volume"`
		MinVolume     *float64 `json:"min_volume"`
		MaxDividends  *float64 `json:"max_dividends"`
		SplitOccurred bool     `json:"split_occurred"`
	}{s.Label, jsonFloat(s.High), jsonFloat(s.Low), jsonFloat(s.MaxVolume), jsonFloat(s.MinVolume),
		jsonFloat(s.MaxDividends), s.SplitOccurred})
}

// -----------------------------------------------------------------------------

func (p MChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  time.Time `json:"x"`
		Close *float64  `json:"y"`
	}{p.Date, jsonFloat(p.Close)})
}

// -----------------------------------------------------------------------------

func (r MAxisRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Low  *float64 `json:"low"`
		High *float64 `json:"high"`
	}{jsonFloat(r.Low), jsonFloat(r.High)})
}
