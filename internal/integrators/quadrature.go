package integrators

import "github.com/san-kum/tethersim/internal/numeric"

// DefaultIntervals is the subdivision DefiniteIntegral uses when n <= 0.
const DefaultIntervals = 1000

// CumulativeTrapezoid returns the running trapezoidal integral of ys over xs
// starting from y0.
func CumulativeTrapezoid(xs, ys []float64, y0 float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	acc := make([]float64, len(xs))
	acc[0] = y0
	for i := 1; i < len(xs); i++ {
		h := xs[i] - xs[i-1]
		acc[i] = acc[i-1] + h*(ys[i]+ys[i-1])/2
	}
	return acc
}

// CumulativeRiemannRight is the right-endpoint running sum. Less accurate
// than the trapezoid; kept for comparison.
func CumulativeRiemannRight(xs, ys []float64, y0 float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	acc := make([]float64, len(xs))
	acc[0] = y0
	for i := 1; i < len(xs); i++ {
		acc[i] = acc[i-1] + (xs[i]-xs[i-1])*ys[i]
	}
	return acc
}

// DefiniteIntegral integrates f over [a, b] with the trapezoid rule on n
// intervals.
func DefiniteIntegral(f func(float64) float64, a, b float64, n int) float64 {
	if n <= 0 {
		n = DefaultIntervals
	}
	xs, err := numeric.Linspace(a, b, n+1)
	if err != nil {
		return 0
	}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f(x)
	}
	acc := CumulativeTrapezoid(xs, ys, 0)
	return acc[len(acc)-1]
}
