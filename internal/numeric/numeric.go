// Package numeric holds the array helpers the integrators and the driver are
// built on.
package numeric

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// NotReached is returned by FirstCrossingX when no sample reaches the
// threshold.
const NotReached = -1.0

// Linspace returns count evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, count int) ([]float64, error) {
	if count < 2 {
		return nil, fmt.Errorf("linspace with %d points: %w", count, dynamo.ErrInvalidGrid)
	}
	return floats.Span(make([]float64, count), start, stop), nil
}

// Scale multiplies every element of values by factor in place and returns
// the same slice.
func Scale(values []float64, factor float64) []float64 {
	floats.Scale(factor, values)
	return values
}

// FirstCrossingX returns xs[i] for the first i where ys[i] >= threshold, or
// NotReached.
func FirstCrossingX(xs, ys []float64, threshold float64) float64 {
	n := min(len(xs), len(ys))
	for i := 0; i < n; i++ {
		if ys[i] >= threshold {
			return xs[i]
		}
	}
	return NotReached
}

// Concat joins two traces into a new slice.
func Concat(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
