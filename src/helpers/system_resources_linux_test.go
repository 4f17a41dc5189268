//go:build linux

package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProbesReadFiles(t *testing.T) {
	dir := t.TempDir()

	meminfo := filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(meminfo, []byte("MemTotal:       16384000 kB\nMemFree:  100 kB\n"), 0644))
	assert.Equal(t, 16000, memInfoTotalMB(meminfo))

	limit := filepath.Join(dir, "memory.max")
	require.NoError(t, os.WriteFile(limit, []byte("1073741824\n"), 0644))
	assert.Equal(t, 1024, cgroupLimitMB(limit))

	require.NoError(t, os.WriteFile(limit, []byte("max\n"), 0644))
	assert.Equal(t, 0, cgroupLimitMB(limit))

	assert.Equal(t, 0, memInfoTotalMB(filepath.Join(dir, "missing")))
}
