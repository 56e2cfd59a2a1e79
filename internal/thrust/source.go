package thrust

import "github.com/san-kum/tethersim/internal/integrators"

const msToS = 0.001

// Source supplies thrust and delivered impulse as functions of time in
// milliseconds.
type Source interface {
	Thrust(t float64) float64
	Impulse(t float64) float64
	// Degraded reports whether the configured data failed to load and the
	// source is standing in with zeros.
	Degraded() bool
}

// Placeholder is a constant thrust. Impulse is integrated on demand.
type Placeholder struct {
	Force float64
}

func NewPlaceholder(force float64) Placeholder {
	return Placeholder{Force: force}
}

func (p Placeholder) Thrust(t float64) float64 { return p.Force }

func (p Placeholder) Impulse(t float64) float64 {
	if t <= 0 {
		return 0
	}
	// N·ms to N·s
	return integrators.DefiniteIntegral(p.Thrust, 0, t, integrators.DefaultIntervals) * msToS
}

func (p Placeholder) Degraded() bool { return false }

// Tabulated serves a measured Series.
type Tabulated struct {
	series *Series
}

func NewTabulated(s *Series) Tabulated {
	return Tabulated{series: s}
}

func (t Tabulated) Series() *Series { return t.series }

func (t Tabulated) Thrust(ms float64) float64  { return t.series.ThrustAt(ms) }
func (t Tabulated) Impulse(ms float64) float64 { return t.series.ImpulseAt(ms) }
func (t Tabulated) Degraded() bool             { return false }

// Missing stands in for a series that could not be loaded.
type Missing struct {
	Location string
	Err      error
}

func (m Missing) Thrust(t float64) float64  { return 0 }
func (m Missing) Impulse(t float64) float64 { return 0 }
func (m Missing) Degraded() bool            { return true }
