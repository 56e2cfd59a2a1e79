package integrators

import "github.com/san-kum/tethersim/internal/dynamo"

// Euler is the first-order explicit method.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.Derivative, x, y, h float64) float64 {
	return y + h*f(x, y)
}

func (e *Euler) Integrate(f dynamo.Derivative, xs []float64, y0 float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	ys := make([]float64, len(xs))
	ys[0] = y0
	for i := 1; i < len(xs); i++ {
		ys[i] = e.Step(f, xs[i-1], ys[i-1], xs[i]-xs[i-1])
	}
	return ys
}
