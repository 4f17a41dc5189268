package helpers

// FallbackMemoryLimitMB is used when the host memory cannot be determined.
const FallbackMemoryLimitMB = 512

// GetRecommendedMemoryLimit returns a soft memory limit in MB for the process
// and whether it was derived from the host rather than the fallback.
func GetRecommendedMemoryLimit() (int, bool) {
	totalMB := GetTotalSystemMemoryMB()
	if totalMB == 0 {
		return FallbackMemoryLimitMB, false
	}
	return RecommendedMemoryLimitMB(totalMB), true
}

// -----------------------------------------------------------------------------

// RecommendedMemoryLimitMB keeps 75% of totalMB, but never less than the
// fallback unless the host itself is smaller.
func RecommendedMemoryLimitMB(totalMB int) int {
	limit := int(float64(totalMB) * 0.75)
	if limit < FallbackMemoryLimitMB {
		if totalMB < FallbackMemoryLimitMB {
			return totalMB
		}
		return FallbackMemoryLimitMB
	}
	return limit
}
