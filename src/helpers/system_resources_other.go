//go:build !linux

package helpers

// GetTotalSystemMemoryMB is only probed on Linux; elsewhere the fallback applies.
func GetTotalSystemMemoryMB() int {
	return 0
}
