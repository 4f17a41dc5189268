package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSummaryJSONWritesNaNAsNull(t *testing.T) {
	s := MRangeSummary{Label: "1 year Range", High: math.NaN(), Low: 5, SplitOccurred: true}

	out, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Nil(t, decoded["high"])
	assert.Equal(t, 5.0, decoded["low"])
	assert.Equal(t, true, decoded["split_occurred"])
	assert.Equal(t, "1 year Range", decoded["label"])
}

func TestAxisRangeJSON(t *testing.T) {
	out, err := json.Marshal(MAxisRange{Low: 2.5, High: 25})
	require.NoError(t, err)
	assert.JSONEq(t, `{"low":2.5,"high":25}`, string(out))
}
