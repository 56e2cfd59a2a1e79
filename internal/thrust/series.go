// Package thrust loads measured thrust curves and exposes them, or a
// placeholder constant, as a time-indexed force source.
package thrust

import (
	"fmt"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// DefaultStepMs is the record spacing of the measured thrust data.
const DefaultStepMs = 10.0

// Series is a uniformly sampled thrust curve with its cumulative impulse.
// Sample i sits at t = i*StepMs. A Series is never modified after
// construction and can be shared between runs.
type Series struct {
	stepMs  float64
	thrust  []float64
	impulse []float64
}

// NewSeries copies thrust (N) and impulse (N·s) into a new Series.
func NewSeries(stepMs float64, thrust, impulse []float64) (*Series, error) {
	if stepMs <= 0 {
		return nil, fmt.Errorf("thrust step %.3f ms: %w", stepMs, dynamo.ErrParameterBounds)
	}
	if len(thrust) == 0 {
		return nil, fmt.Errorf("empty thrust series: %w", dynamo.ErrDataUnavailable)
	}
	if len(thrust) != len(impulse) {
		return nil, fmt.Errorf("thrust has %d samples, impulse %d: %w",
			len(thrust), len(impulse), dynamo.ErrDataUnavailable)
	}
	s := &Series{
		stepMs:  stepMs,
		thrust:  make([]float64, len(thrust)),
		impulse: make([]float64, len(impulse)),
	}
	copy(s.thrust, thrust)
	copy(s.impulse, impulse)
	return s, nil
}

func (s *Series) Len() int            { return len(s.thrust) }
func (s *Series) StepMs() float64     { return s.stepMs }
func (s *Series) DurationMs() float64 { return float64(len(s.thrust)-1) * s.stepMs }

// Time returns the timestamp of sample i in milliseconds.
func (s *Series) Time(i int) float64 { return float64(i) * s.stepMs }

// ThrustValues returns a copy of the thrust column.
func (s *Series) ThrustValues() []float64 {
	out := make([]float64, len(s.thrust))
	copy(out, s.thrust)
	return out
}

// ImpulseValues returns a copy of the cumulative impulse column.
func (s *Series) ImpulseValues() []float64 {
	out := make([]float64, len(s.impulse))
	copy(out, s.impulse)
	return out
}

// TotalImpulse is the last cumulative impulse sample.
func (s *Series) TotalImpulse() float64 {
	return s.impulse[len(s.impulse)-1]
}

// ThrustAt interpolates the thrust at t. Before the first sample it returns
// the first value; after the last sample the motor is spent and it returns 0.
func (s *Series) ThrustAt(t float64) float64 {
	return s.lookup(s.thrust, t, 0)
}

// ImpulseAt interpolates the cumulative impulse at t. After the last sample
// the delivered impulse stays at its final value.
func (s *Series) ImpulseAt(t float64) float64 {
	return s.lookup(s.impulse, t, s.TotalImpulse())
}

func (s *Series) lookup(col []float64, t, afterEnd float64) float64 {
	if t < 0 {
		return col[0]
	}
	n := len(col)
	idx := int(t / s.stepMs)
	rem := t - float64(idx)*s.stepMs
	if idx >= n-1 {
		if idx == n-1 && rem == 0 {
			return col[n-1]
		}
		return afterEnd
	}
	frac := rem / s.stepMs
	return col[idx] + (col[idx+1]-col[idx])*frac
}
