package models

// MRangeSummary holds the scalar aggregates of a price history table.
type MRangeSummary struct {
	Label         string  `json:"label"` // e.g. "1 year Range"
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	MaxVolume     float64 `json:"max_volume"`
	MinVolume     float64 `json:"min_volume"`
	MaxDividends  float64 `json:"max_dividends"`
	SplitOccurred bool    `json:"split_occurred"`
}
