package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxMin(t *testing.T) {
	max, ok := Max([]float64{3, 9, -1})
	assert.True(t, ok)
	assert.Equal(t, 9.0, max)

	min, ok := Min([]float64{3, 9, -1})
	assert.True(t, ok)
	assert.Equal(t, -1.0, min)

	_, ok = Max(nil)
	assert.False(t, ok)
	_, ok = Min([]float64{})
	assert.False(t, ok)
}

func TestReductionsPropagateNaN(t *testing.T) {
	max, _ := Max([]float64{1, math.NaN(), 3})
	assert.True(t, math.IsNaN(max))

	min, _ := Min([]float64{math.NaN(), 1})
	assert.True(t, math.IsNaN(min))
}

func TestPaddedRange(t *testing.T) {
	low, high := PaddedRange(10, 20)
	assert.Equal(t, 5.0, low)
	assert.Equal(t, 25.0, high)
}

func TestSplitOccurred(t *testing.T) {
	assert.True(t, SplitOccurred(2))
	assert.False(t, SplitOccurred(0))
	assert.False(t, SplitOccurred(math.NaN()))
}
