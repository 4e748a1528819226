package memory

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestReadMeminfoTotal tests /proc/meminfo parsing
func TestReadMeminfoTotal(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{
			name:     "normal meminfo",
			content:  "MemTotal:       16384516 kB\nMemFree:         1234 kB\n",
			expected: 16384516 * 1024,
		},
		{
			name:     "single line",
			content:  "MemTotal: 8 kB",
			expected: 8 * 1024,
		},
		{
			name:     "garbage value",
			content:  "MemTotal: lots kB",
			expected: math.MaxInt64,
		},
		{
			name:     "empty file",
			content:  "",
			expected: math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "meminfo", tt.content)
			assert.Equal(t, tt.expected, readMeminfoTotal(path))
		})
	}
}

// TestReadMeminfoTotalMissing tests a missing meminfo file
func TestReadMeminfoTotalMissing(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), readMeminfoTotal(filepath.Join(t.TempDir(), "nope")))
}

// TestReadCgroupLimit tests cgroup v1/v2 limit parsing
func TestReadCgroupLimit(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int64
	}{
		{name: "numeric limit", content: "4294967296\n", expected: 4294967296},
		{name: "v2 no limit", content: "max\n", expected: math.MaxInt64},
		{name: "parse error", content: "unlimited\n", expected: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "memory.max", tt.content)
			assert.Equal(t, tt.expected, readCgroupLimit(path))
		})
	}
}

// TestReadCgroupLimitMissing tests that a missing cgroup file means no limit
func TestReadCgroupLimitMissing(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), readCgroupLimit(filepath.Join(t.TempDir(), "memory.max")))
}

// TestComputeBudgets tests pool derivation
func TestComputeBudgets(t *testing.T) {
	const gib = int64(1) << 30

	t.Run("defaults from probe", func(t *testing.T) {
		b, err := computeBudgets(64*gib, 0, 0, 0)
		require.NoError(t, err)

		osReserve := int64(512 << 20) // capped at 512 MiB for 64 GiB
		max := 64*gib - osReserve
		assert.Equal(t, 64*gib, b.AvailableRAM)
		assert.Equal(t, max, b.MaxMemoryConsumption)
		assert.Equal(t, max/2, b.IndexBuilding)
		assert.Equal(t, 4*max/5, b.DiskCache)
	})

	t.Run("small host reserves one percent", func(t *testing.T) {
		b, err := computeBudgets(10*gib, 0, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 10*gib-10*gib/100, b.MaxMemoryConsumption)
	})

	t.Run("heap limit subtracted", func(t *testing.T) {
		b, err := computeBudgets(16*gib, 4*gib, 0, 0)
		require.NoError(t, err)
		direct := 12 * gib
		assert.Equal(t, direct-direct/100, b.MaxMemoryConsumption)
	})

	t.Run("configured pools win", func(t *testing.T) {
		b, err := computeBudgets(16*gib, 0, 2*gib, 3*gib)
		require.NoError(t, err)
		assert.Equal(t, 2*gib, b.IndexBuilding)
		assert.Equal(t, 3*gib, b.DiskCache)
	})

	t.Run("eight tebibytes refused", func(t *testing.T) {
		_, err := computeBudgets(8<<40, 0, 0, 0)
		assert.Error(t, err)
	})

	t.Run("probe failure refused", func(t *testing.T) {
		_, err := computeBudgets(math.MaxInt64, 0, 0, 0)
		assert.Error(t, err)
	})
}
