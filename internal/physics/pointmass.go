package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// DefaultDecayFactor sets the decay time constant t0 as a fraction of the
// cutoff time.
const DefaultDecayFactor = 0.2

// PointMassParams describes a constant-force body with quadratic drag.
// DragK is scaled by 1/1000 before use.
type PointMassParams struct {
	Mass        float64 `yaml:"mass" json:"mass"`
	DragK       float64 `yaml:"drag_k" json:"drag_k"`
	Force       float64 `yaml:"force" json:"force"`
	DecayFactor float64 `yaml:"decay_factor" json:"decay_factor"`
}

func DefaultPointMassParams() PointMassParams {
	return PointMassParams{
		Mass:        50,
		DragK:       1,
		Force:       2,
		DecayFactor: DefaultDecayFactor,
	}
}

func (p *PointMassParams) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":         p.Mass,
		"drag_k":       p.DragK,
		"force":        p.Force,
		"decay_factor": p.DecayFactor,
	}
}

func (p *PointMassParams) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "drag_k":
		p.DragK = value
	case "force":
		p.Force = value
	case "decay_factor":
		p.DecayFactor = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// PointMass applies a constant force until Cutoff, after which the force
// decays as (t0/(t-tc+t0))^1.5. A zero cutoff means the force never decays.
type PointMass struct {
	params PointMassParams
	cutoff float64
}

func NewPointMass(params PointMassParams, cutoffMs float64) (*PointMass, error) {
	if params.Mass <= 0 {
		return nil, fmt.Errorf("mass %g: %w", params.Mass, dynamo.ErrNegativeMass)
	}
	if cutoffMs < 0 {
		return nil, fmt.Errorf("cutoff %g ms: %w", cutoffMs, dynamo.ErrParameterBounds)
	}
	if cutoffMs > 0 && params.DecayFactor <= 0 {
		return nil, fmt.Errorf("decay factor %g: %w", params.DecayFactor, dynamo.ErrParameterBounds)
	}
	return &PointMass{params: params, cutoff: cutoffMs}, nil
}

func (p *PointMass) Params() PointMassParams { return p.params }
func (p *PointMass) Cutoff() float64         { return p.cutoff }
func (p *PointMass) Degraded() bool          { return false }

func (p *PointMass) drag(v float64) float64 {
	return p.params.DragK / 1000 * v * v
}

// decay is the thrust fraction remaining at t for a cutoff at tc.
func (p *PointMass) decay(t, tc float64) float64 {
	if tc <= 0 || t <= tc {
		return 1
	}
	t0 := tc * p.params.DecayFactor
	return math.Pow(math.Sqrt(t0/(t-tc+t0)), 3)
}

func (p *PointMass) Thrust(t float64) float64 {
	return p.params.Force * p.decay(t, p.cutoff)
}

func (p *PointMass) Acceleration(t, v float64) float64 {
	return (p.Thrust(t) - p.drag(v)) / p.params.Mass
}

// Phases returns the constant-force and decaying derivatives for a cutoff
// at tc.
func (p *PointMass) Phases(tc float64) (before, after dynamo.Derivative) {
	m := p.params.Mass
	before = func(t, v float64) float64 {
		return p.params.Force/m - p.drag(v)/m
	}
	after = func(t, v float64) float64 {
		return p.params.Force/m*p.decay(t, tc) - p.drag(v)/m
	}
	return before, after
}

// Impulse is the delivered impulse in N·s, in closed form.
func (p *PointMass) Impulse(t float64) float64 {
	if t <= 0 {
		return 0
	}
	f := p.params.Force
	tc := p.cutoff
	if tc <= 0 || t <= tc {
		return f * t * 0.001
	}
	t0 := tc * p.params.DecayFactor
	tail := 2 * f * math.Pow(t0, 1.5) * (1/math.Sqrt(t0) - 1/math.Sqrt(t-tc+t0))
	return (f*tc + tail) * 0.001
}

func (p *PointMass) Forces(t, v float64) dynamo.Forces {
	thrust := p.Thrust(t)
	drag := p.drag(v)
	return dynamo.Forces{
		Thrust:  thrust,
		Drag:    drag,
		Net:     thrust - drag,
		Mass:    p.params.Mass,
		Impulse: p.Impulse(t),
	}
}
