package memory

import (
	"fmt"
	"math"
	"runtime/debug"
)

const (
	// Above this the probe result is almost certainly a misread of the
	// environment, so startup refuses instead of sizing pools from it.
	maxPlausibleRAM = 8 << 40 // 8 TiB

	osReserveCap = 512 << 20 // 512 MiB
)

// Budgets holds the memory pools derived at boot. Immutable afterwards.
type Budgets struct {
	// AvailableRAM is the smaller of physical RAM and any cgroup limit.
	AvailableRAM int64

	// MaxMemoryConsumption is what remains after the Go heap limit and the
	// OS reserve are taken out of AvailableRAM.
	MaxMemoryConsumption int64

	// IndexBuilding is the pool handed to the index builder.
	IndexBuilding int64

	// DiskCache is the pool handed to the search-mode disk page cache.
	DiskCache int64
}

// Compute probes the host and derives the two memory pools. The configured
// pool sizes, when non-zero, override the probe-derived defaults.
func Compute(configuredBuilding, configuredDiskCache int64) (Budgets, error) {
	return computeBudgets(availableRAM(), heapLimit(), configuredBuilding, configuredDiskCache)
}

func computeBudgets(ram, heap, configuredBuilding, configuredDiskCache int64) (Budgets, error) {
	if ram >= maxPlausibleRAM {
		return Budgets{}, fmt.Errorf("invalid available RAM %d bytes: refusing to size memory pools above 8 TiB", ram)
	}

	availableDirect := ram - heap
	if availableDirect < 0 {
		availableDirect = 0
	}

	osReserve := availableDirect / 100
	if osReserve > osReserveCap {
		osReserve = osReserveCap
	}

	b := Budgets{
		AvailableRAM:         ram,
		MaxMemoryConsumption: availableDirect - osReserve,
	}

	b.IndexBuilding = configuredBuilding
	if b.IndexBuilding == 0 {
		b.IndexBuilding = b.MaxMemoryConsumption / 2
	}

	b.DiskCache = configuredDiskCache
	if b.DiskCache == 0 {
		b.DiskCache = 4 * b.MaxMemoryConsumption / 5
	}

	return b, nil
}

// heapLimit returns the Go runtime soft memory limit, or 0 when none is set.
func heapLimit() int64 {
	limit := debug.SetMemoryLimit(-1)
	if limit == math.MaxInt64 {
		return 0
	}
	return limit
}
