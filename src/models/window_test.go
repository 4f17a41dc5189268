package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowMapping(t *testing.T) {
	expected := map[string]string{
		"2 days":   "2d",
		"1 month":  "1mo",
		"6 months": "6mo",
		"1 year":   "1y",
		"5 years":  "5y",
	}

	for label, token := range expected {
		t.Run(label, func(t *testing.T) {
			w, err := ParseWindow(label)
			require.NoError(t, err)
			assert.Equal(t, token, w.Token)
			assert.Equal(t, label, w.Label)
		})
	}
	assert.Len(t, Windows, len(expected))
}

func TestParseWindowTokensAreDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, w := range Windows {
		if other, ok := seen[w.Token]; ok {
			t.Fatalf("token %s shared by %q and %q", w.Token, other, w.Label)
		}
		seen[w.Token] = w.Label
	}
}

func TestParseWindowRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "1y", "1 Year", "10 years", " 1 year"} {
		_, err := ParseWindow(label)
		assert.Error(t, err, label)
	}
}

func TestDefaultWindow(t *testing.T) {
	w := DefaultWindow()
	assert.Equal(t, "1 year", w.Label)
	assert.Equal(t, "1y", w.Token)
	assert.Equal(t, []string{"2 days", "1 month", "6 months", "1 year", "5 years"}, WindowLabels())
}
