//go:build !linux && !windows

package memory

import "math"

// availableRAM has no probe on this platform; the 8 TiB plausibility check
// turns this into a startup failure, whether or not pools are configured.
func availableRAM() int64 {
	return math.MaxInt64
}
