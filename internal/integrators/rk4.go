package integrators

import "github.com/san-kum/tethersim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. The step size is
// taken from each grid interval, so non-uniform grids are fine.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(f dynamo.Derivative, x, y, h float64) float64 {
	half := h * 0.5

	k1 := f(x, y)
	k2 := f(x+half, y+half*k1)
	k3 := f(x+half, y+half*k2)
	k4 := f(x+h, y+h*k3)

	return y + h/6.0*(k1+2*k2+2*k3+k4)
}

func (r *RK4) Integrate(f dynamo.Derivative, xs []float64, y0 float64) []float64 {
	if len(xs) == 0 {
		return nil
	}
	ys := make([]float64, len(xs))
	ys[0] = y0
	for i := 1; i < len(xs); i++ {
		ys[i] = r.Step(f, xs[i-1], ys[i-1], xs[i]-xs[i-1])
	}
	return ys
}
