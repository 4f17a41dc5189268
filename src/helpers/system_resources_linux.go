//go:build linux

package helpers

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// GetTotalSystemMemoryMB returns the memory available to the process in MB:
// the cgroup v2 limit when one is set, otherwise the physical total.
func GetTotalSystemMemoryMB() int {
	total := memInfoTotalMB("/proc/meminfo")
	if limit := cgroupLimitMB("/sys/fs/cgroup/memory.max"); limit > 0 && (total == 0 || limit < total) {
		return limit
	}
	return total
}

// -----------------------------------------------------------------------------

func memInfoTotalMB(path string) int {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			if kb, err := strconv.Atoi(fields[1]); err == nil {
				return kb / 1024
			}
		}
	}
	return 0
}

// -----------------------------------------------------------------------------

// cgroupLimitMB reads memory.max; "max" means unlimited and yields 0.
func cgroupLimitMB(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	value := strings.TrimSpace(string(data))
	if value == "max" {
		return 0
	}
	bytes, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return int(bytes / 1024 / 1024)
}
