package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendedMemoryLimitMB(t *testing.T) {
	assert.Equal(t, 6144, RecommendedMemoryLimitMB(8192))
	assert.Equal(t, 512, RecommendedMemoryLimitMB(600))
	assert.Equal(t, 256, RecommendedMemoryLimitMB(256))
}

func TestGetRecommendedMemoryLimitIsPositive(t *testing.T) {
	limit, _ := GetRecommendedMemoryLimit()
	assert.Greater(t, limit, 0)
}
