package dynamo

import "math"

// Derivative is the right-hand side of dy/dx = f(x, y). For the vehicle
// models x is time in milliseconds and y is velocity in m/s.
type Derivative func(x, y float64) float64

// Integrator advances y0 across every interval of the grid xs and returns
// one value per grid point.
type Integrator interface {
	Integrate(f Derivative, xs []float64, y0 float64) []float64
}

// Model is a force model driving a single velocity ODE.
type Model interface {
	// Acceleration is the derivative dv/dt handed to the integrator.
	Acceleration(t, v float64) float64
	Forces(t, v float64) Forces
	// Degraded reports whether the model is running without its thrust data.
	Degraded() bool
}

// Phased models switch derivative at a cutoff time. The driver integrates
// each phase over its own grid.
type Phased interface {
	Phases(cutoff float64) (before, after Derivative)
}

// Configurable parameter sets can be adjusted by name at runtime.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Forces holds every component acting on the vehicle at one instant.
// Resistive components are magnitudes; Net is the signed balance.
type Forces struct {
	Thrust  float64 `json:"thrust"`
	Drag    float64 `json:"drag"`
	Lift    float64 `json:"lift"`
	Bearing float64 `json:"bearing"`
	Tether  float64 `json:"tether"`
	Net     float64 `json:"net"`
	Mass    float64 `json:"mass"`
	Impulse float64 `json:"impulse"`
}

// Sample is one grid point of a completed run.
type Sample struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
	X float64 `json:"x"`
	Forces
}

// IsValid reports whether every value in the trace is finite.
func IsValid(trace []float64) bool {
	for _, v := range trace {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
