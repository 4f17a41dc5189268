package core

import "math"

// Reductions follow IEEE semantics: a NaN anywhere in the input makes the
// result NaN.

// -----------------------------------------------------------------------------

// Max returns the largest value. ok is false for an empty slice.
func Max(values []float64) (max float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	max = values[0]
	for _, v := range values[1:] {
		max = math.Max(max, v)
	}
	return max, true
}

// -----------------------------------------------------------------------------

// Min returns the smallest value. ok is false for an empty slice.
func Min(values []float64) (min float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	min = values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
	}
	return min, true
}
