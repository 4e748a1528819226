package index

import (
	"fmt"
	"math"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

// DistanceFunc maps two equidimensional vectors to a score where smaller
// means closer.
type DistanceFunc func(a, b []float32) float32

// ForDistance resolves a named metric from the catalog. The multiplier
// scales every computed distance and comes straight from configuration.
func ForDistance(d types.Distance, multiplier float64) (DistanceFunc, error) {
	if multiplier == 0 {
		multiplier = 1.0
	}
	m := float32(multiplier)

	switch d {
	case types.DistanceL2:
		return func(a, b []float32) float32 {
			var sum float32
			for i := range a {
				diff := a[i] - b[i]
				sum += diff * diff
			}
			return sum * m
		}, nil
	case types.DistanceDot:
		// Negated so that a larger inner product ranks closer.
		return func(a, b []float32) float32 {
			var dot float32
			for i := range a {
				dot += a[i] * b[i]
			}
			return -dot * m
		}, nil
	case types.DistanceCosine:
		return func(a, b []float32) float32 {
			var dot, normA, normB float32
			for i := range a {
				dot += a[i] * b[i]
				normA += a[i] * a[i]
				normB += b[i] * b[i]
			}
			denom := float32(math.Sqrt(float64(normA)) * math.Sqrt(float64(normB)))
			if denom == 0 {
				return m
			}
			return (1 - dot/denom) * m
		}, nil
	}
	return nil, fmt.Errorf("unknown distance: %q", d)
}
