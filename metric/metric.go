// Package metric provides grid metrics used to build topology distance tables.
//
// A metric receives the per-axis coordinate differences between two grid
// positions (already wrapped for borderless grids) and returns their distance.
package metric

import (
	"fmt"
	"math"
)

// Func computes a distance from per-axis coordinate differences.
type Func func(diff []float64) float64

// Euclidean returns the L2 length of diff.
func Euclidean(diff []float64) float64 {
	var sum float64
	for _, d := range diff {
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Manhattan returns the L1 length of diff.
func Manhattan(diff []float64) float64 {
	var sum float64
	for _, d := range diff {
		sum += math.Abs(d)
	}
	return sum
}

// Chebyshev returns the largest absolute component of diff.
func Chebyshev(diff []float64) float64 {
	var m float64
	for _, d := range diff {
		m = math.Max(m, math.Abs(d))
	}
	return m
}

// ByName returns the metric registered under name.
func ByName(name string) (Func, error) {
	switch name {
	case "euclidean", "":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "chebyshev":
		return Chebyshev, nil
	default:
		return nil, fmt.Errorf("unsupported grid metric: %q", name)
	}
}
