package models

import (
	"sort"
	"time"
)

// MCatalogRow is one index member as listed on the constituents table.
type MCatalogRow struct {
	Symbol       string `json:"symbol"`
	Security     string `json:"security"`
	Sector       string `json:"gics_sector"`
	SubIndustry  string `json:"gics_sub_industry,omitempty"`
	Headquarters string `json:"headquarters_location"`
	DateAdded    string `json:"date_added,omitempty"`
	CIK          string `json:"cik,omitempty"`
	Founded      string `json:"founded"`
}

// -----------------------------------------------------------------------------

// MCatalog is the full membership table. Treat it as read-only once loaded.
type MCatalog struct {
	Rows      []MCatalogRow `json:"rows"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// -----------------------------------------------------------------------------

// Symbols returns the unique symbols in ascending ordinal order.
func (c *MCatalog) Symbols() []string {
	if c == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(c.Rows))
	symbols := make([]string, 0, len(c.Rows))
	for _, row := range c.Rows {
		if _, ok := seen[row.Symbol]; ok {
			continue
		}
		seen[row.Symbol] = struct{}{}
		symbols = append(symbols, row.Symbol)
	}

	sort.Strings(symbols)
	return symbols
}

// -----------------------------------------------------------------------------

// Contains reports whether symbol is a member.
func (c *MCatalog) Contains(symbol string) bool {
	if c == nil {
		return false
	}
	for _, row := range c.Rows {
		if row.Symbol == symbol {
			return true
		}
	}
	return false
}
