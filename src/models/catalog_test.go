package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogSymbolsAreUniqueAndOrdinalSorted(t *testing.T) {
	c := &MCatalog{Rows: []MCatalogRow{
		{Symbol: "MSFT"}, {Symbol: "AAPL"}, {Symbol: "BRK.B"}, {Symbol: "AAPL"}, {Symbol: "aal"}, {Symbol: "A"},
	}}

	assert.Equal(t, []string{"A", "AAPL", "BRK.B", "MSFT", "aal"}, c.Symbols())
	assert.True(t, c.Contains("BRK.B"))
	assert.False(t, c.Contains("brk.b"))
}

func TestNilCatalog(t *testing.T) {
	var c *MCatalog
	assert.Empty(t, c.Symbols())
	assert.False(t, c.Contains("AAPL"))
}
