package core

// Chart envelope factors applied to the High column.
const (
	LowerPadFactor = 0.5
	UpperPadFactor = 1.25
)

// -----------------------------------------------------------------------------

// PaddedRange widens [minHigh, maxHigh] by the fixed chart factors.
func PaddedRange(minHigh, maxHigh float64) (low, high float64) {
	return LowerPadFactor * minHigh, UpperPadFactor * maxHigh
}

// -----------------------------------------------------------------------------

// SplitOccurred reports whether the largest split ratio is positive.
// A NaN ratio is not a split.
func SplitOccurred(maxSplit float64) bool {
	return maxSplit > 0
}
