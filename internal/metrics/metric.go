// Package metrics derives scalar summaries from a completed run's samples.
package metrics

import (
	"math"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// Metric observes samples in grid order and reports one value.
type Metric interface {
	Name() string
	Observe(s dynamo.Sample)
	Value() float64
	Reset()
}

const (
	MaxVelocity          = "max_velocity"
	PeakThrust           = "peak_thrust"
	AvgBurnThrust        = "avg_burn_thrust"
	PeakDrag             = "peak_drag"
	DragAtMaxVelocity    = "drag_at_max_velocity"
	TotalImpulse         = "total_impulse"
	DragEnergy           = "drag_energy"
	BearingEnergy        = "bearing_energy"
	TetherEnergy         = "tether_energy"
	TimeToDistance       = "time_to_distance"
	FinalDisplacement    = "final_displacement"
	FinalVelocity        = "final_velocity"
	DefaultBurnThreshold = 0.1
)

// Extractor picks one quantity out of a sample.
type Extractor func(s dynamo.Sample) float64

func Velocity(s dynamo.Sample) float64     { return s.V }
func Displacement(s dynamo.Sample) float64 { return s.X }
func Thrust(s dynamo.Sample) float64       { return s.Thrust }
func Drag(s dynamo.Sample) float64         { return s.Drag }
func Bearing(s dynamo.Sample) float64      { return s.Bearing }
func Tether(s dynamo.Sample) float64       { return s.Tether }
func Impulse(s dynamo.Sample) float64      { return s.Impulse }

// Standard returns the metrics reported for every run. Thrust samples at or
// below burnThreshold are excluded from the thrust peak and burn average.
func Standard(burnThreshold float64) []Metric {
	return []Metric{
		NewPeak(MaxVelocity, Velocity, false),
		NewPeakAbove(PeakThrust, Thrust, burnThreshold),
		NewBurnAverage(burnThreshold),
		NewPeak(PeakDrag, Drag, true),
		NewAtPeak(DragAtMaxVelocity, Velocity, Drag),
		NewFinal(TotalImpulse, Impulse),
		NewWork(DragEnergy, Drag),
		NewWork(BearingEnergy, Bearing),
		NewWork(TetherEnergy, Tether),
		NewFinal(FinalDisplacement, Displacement),
		NewFinal(FinalVelocity, Velocity),
	}
}

// Collect resets ms, feeds every sample through them and returns the values
// by name.
func Collect(samples []dynamo.Sample, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for _, s := range samples {
		for _, m := range ms {
			m.Observe(s)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Peak tracks the largest value seen, optionally by magnitude.
type Peak struct {
	name    string
	extract Extractor
	abs     bool
	gated   bool
	floor   float64
	max     float64
	samples int
}

func NewPeak(name string, extract Extractor, abs bool) *Peak {
	return &Peak{name: name, extract: extract, abs: abs}
}

// NewPeakAbove only considers values strictly above floor and reports 0
// when none qualify.
func NewPeakAbove(name string, extract Extractor, floor float64) *Peak {
	return &Peak{name: name, extract: extract, gated: true, floor: floor}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(s dynamo.Sample) {
	v := p.extract(s)
	if p.abs {
		v = math.Abs(v)
	}
	if p.gated && v <= p.floor {
		return
	}
	if p.samples == 0 || v > p.max {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}

// AtPeak reports one quantity at the sample where another peaks. Ties keep
// the first occurrence.
type AtPeak struct {
	name    string
	key     Extractor
	value   Extractor
	best    float64
	at      float64
	samples int
}

func NewAtPeak(name string, key, value Extractor) *AtPeak {
	return &AtPeak{name: name, key: key, value: value}
}

func (a *AtPeak) Name() string { return a.name }

func (a *AtPeak) Observe(s dynamo.Sample) {
	k := a.key(s)
	if a.samples == 0 || k > a.best {
		a.best = k
		a.at = a.value(s)
	}
	a.samples++
}

func (a *AtPeak) Value() float64 { return a.at }

func (a *AtPeak) Reset() {
	a.best, a.at = 0, 0
	a.samples = 0
}

// Final keeps the last value observed.
type Final struct {
	name    string
	extract Extractor
	last    float64
}

func NewFinal(name string, extract Extractor) *Final {
	return &Final{name: name, extract: extract}
}

func (f *Final) Name() string            { return f.name }
func (f *Final) Observe(s dynamo.Sample) { f.last = f.extract(s) }
func (f *Final) Value() float64          { return f.last }
func (f *Final) Reset()                  { f.last = 0 }
