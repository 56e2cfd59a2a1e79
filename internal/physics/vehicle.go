package physics

import (
	"fmt"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/thrust"
)

// Gravity in m/s².
const Gravity = 9.81

// VehicleParams is an immutable snapshot of the vehicle configuration.
type VehicleParams struct {
	DragCoeff     float64 `yaml:"drag_coeff" json:"drag_coeff"`
	LiftCoeff     float64 `yaml:"lift_coeff" json:"lift_coeff"`
	BearingStatic float64 `yaml:"bearing_static" json:"bearing_static"`
	BearingMu     float64 `yaml:"bearing_mu" json:"bearing_mu"`

	// TipOffset and TipLength set the thrust efficiency 1 - offset/length.
	TipOffset float64 `yaml:"tip_offset" json:"tip_offset"`
	TipLength float64 `yaml:"tip_length" json:"tip_length"`

	FlywheelInertia float64 `yaml:"flywheel_inertia" json:"flywheel_inertia"`
	WheelInertia    float64 `yaml:"wheel_inertia" json:"wheel_inertia"`
	WheelRadius     float64 `yaml:"wheel_radius" json:"wheel_radius"`

	TotalMass     float64 `yaml:"total_mass" json:"total_mass"`
	CO2PerImpulse float64 `yaml:"co2_per_impulse" json:"co2_per_impulse"`

	// TetherForce, when non-zero, replaces the friction model below with a
	// constant resistance.
	TetherForce   float64 `yaml:"tether_force" json:"tether_force"`
	TetherMu      float64 `yaml:"tether_mu" json:"tether_mu"`
	TetherTension float64 `yaml:"tether_tension" json:"tether_tension"`
	TetherLength  float64 `yaml:"tether_length" json:"tether_length"`
}

// DefaultVehicleParams returns the baseline vehicle.
func DefaultVehicleParams() VehicleParams {
	return VehicleParams{
		DragCoeff:       0.00075843,
		LiftCoeff:       0.000075843,
		BearingStatic:   0.001,
		BearingMu:       0,
		TipOffset:       0,
		TipLength:       1,
		FlywheelInertia: 1,
		WheelInertia:    1,
		WheelRadius:     14,
		TotalMass:       48,
		CO2PerImpulse:   0,
		TetherForce:     2,
	}
}

func (p *VehicleParams) GetParams() map[string]float64 {
	return map[string]float64{
		"drag_coeff":       p.DragCoeff,
		"lift_coeff":       p.LiftCoeff,
		"bearing_static":   p.BearingStatic,
		"bearing_mu":       p.BearingMu,
		"tip_offset":       p.TipOffset,
		"tip_length":       p.TipLength,
		"flywheel_inertia": p.FlywheelInertia,
		"wheel_inertia":    p.WheelInertia,
		"wheel_radius":     p.WheelRadius,
		"total_mass":       p.TotalMass,
		"co2_per_impulse":  p.CO2PerImpulse,
		"tether_force":     p.TetherForce,
		"tether_mu":        p.TetherMu,
		"tether_tension":   p.TetherTension,
		"tether_length":    p.TetherLength,
	}
}

func (p *VehicleParams) SetParam(name string, value float64) error {
	switch name {
	case "drag_coeff":
		p.DragCoeff = value
	case "lift_coeff":
		p.LiftCoeff = value
	case "bearing_static":
		p.BearingStatic = value
	case "bearing_mu":
		p.BearingMu = value
	case "tip_offset":
		p.TipOffset = value
	case "tip_length":
		p.TipLength = value
	case "flywheel_inertia":
		p.FlywheelInertia = value
	case "wheel_inertia":
		p.WheelInertia = value
	case "wheel_radius":
		p.WheelRadius = value
	case "total_mass":
		p.TotalMass = value
	case "co2_per_impulse":
		p.CO2PerImpulse = value
	case "tether_force":
		p.TetherForce = value
	case "tether_mu":
		p.TetherMu = value
	case "tether_tension":
		p.TetherTension = value
	case "tether_length":
		p.TetherLength = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Vehicle is the full force model. It holds its parameters by value and is
// safe for concurrent use when its source is.
type Vehicle struct {
	params VehicleParams
	source thrust.Source
}

// NewVehicle validates params against a run ending at horizonMs.
func NewVehicle(params VehicleParams, source thrust.Source, horizonMs float64) (*Vehicle, error) {
	if source == nil {
		return nil, fmt.Errorf("vehicle needs a thrust source: %w", dynamo.ErrParameterBounds)
	}
	if params.WheelRadius <= 0 {
		return nil, fmt.Errorf("wheel radius %g: %w", params.WheelRadius, dynamo.ErrParameterBounds)
	}
	if params.TipLength <= 0 {
		return nil, fmt.Errorf("tip length %g: %w", params.TipLength, dynamo.ErrParameterBounds)
	}
	if params.TotalMass <= 0 {
		return nil, fmt.Errorf("total mass %g: %w", params.TotalMass, dynamo.ErrParameterBounds)
	}
	v := &Vehicle{params: params, source: source}
	if m := v.Mass(horizonMs); m <= 0 {
		return nil, fmt.Errorf("mass %g at t=%g ms: %w", m, horizonMs, dynamo.ErrNegativeMass)
	}
	return v, nil
}

func (v *Vehicle) Params() VehicleParams { return v.params }
func (v *Vehicle) Degraded() bool        { return v.source.Degraded() }

func (v *Vehicle) Thrust(t float64) float64 { return v.source.Thrust(t) }

func (v *Vehicle) Drag(t, vel float64) float64 { return v.params.DragCoeff * vel * vel }
func (v *Vehicle) Lift(t, vel float64) float64 { return v.params.LiftCoeff * vel * vel }

func (v *Vehicle) Bearing(t, vel float64) float64 {
	return v.params.BearingStatic + v.params.BearingMu*(v.Mass(t)*Gravity-v.Lift(t, vel))
}

func (v *Vehicle) Tether(t float64) float64 {
	if v.params.TetherForce != 0 {
		return v.params.TetherForce
	}
	return v.params.TetherMu * v.params.TetherTension * v.params.TetherLength
}

// Mass falls as CO2 is expelled.
func (v *Vehicle) Mass(t float64) float64 {
	return v.params.TotalMass - v.params.CO2PerImpulse*v.source.Impulse(t)
}

// EffectiveInertia is the rotating mass of flywheel and wheels referred to
// the contact radius.
func (v *Vehicle) EffectiveInertia() float64 {
	r2 := v.params.WheelRadius * v.params.WheelRadius
	return 2*v.params.FlywheelInertia/r2 + 2*v.params.WheelInertia/r2
}

func (v *Vehicle) TipEfficiency() float64 {
	return 1 - v.params.TipOffset/v.params.TipLength
}

func (v *Vehicle) NetForce(t, vel float64) float64 {
	return v.Thrust(t)*v.TipEfficiency() - v.Drag(t, vel) - v.Bearing(t, vel) - v.Tether(t)
}

func (v *Vehicle) Acceleration(t, vel float64) float64 {
	return v.NetForce(t, vel) / (v.Mass(t) + v.EffectiveInertia())
}

func (v *Vehicle) Forces(t, vel float64) dynamo.Forces {
	return dynamo.Forces{
		Thrust:  v.Thrust(t),
		Drag:    v.Drag(t, vel),
		Lift:    v.Lift(t, vel),
		Bearing: v.Bearing(t, vel),
		Tether:  v.Tether(t),
		Net:     v.NetForce(t, vel),
		Mass:    v.Mass(t),
		Impulse: v.source.Impulse(t),
	}
}
