package sim

import (
	"fmt"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// Config is the per-run grid and initial-condition snapshot. It is passed by
// value; a run never observes later changes to the caller's copy.
type Config struct {
	// EndTime is the horizon in milliseconds.
	EndTime    float64 `yaml:"end_time" json:"end_time"`
	StepsPerMs float64 `yaml:"steps_per_ms" json:"steps_per_ms"`
	// Cutoff splits the run into two integration phases when positive.
	Cutoff float64 `yaml:"cutoff" json:"cutoff"`

	InitialVelocity     float64 `yaml:"initial_velocity" json:"initial_velocity"`
	InitialDisplacement float64 `yaml:"initial_displacement" json:"initial_displacement"`

	// UnitScale converts integrated displacement (m/s · ms) to metres.
	UnitScale         float64 `yaml:"unit_scale" json:"unit_scale"`
	DistanceThreshold float64 `yaml:"distance_threshold" json:"distance_threshold"`
	BurnThreshold     float64 `yaml:"burn_threshold" json:"burn_threshold"`
}

func DefaultConfig() Config {
	return Config{
		EndTime:           3000,
		StepsPerMs:        10,
		UnitScale:         0.001,
		DistanceThreshold: 20,
		BurnThreshold:     0.1,
	}
}

// Validate rejects grids that cannot produce at least two samples per
// integration phase.
func (c Config) Validate() error {
	if c.EndTime <= 0 {
		return fmt.Errorf("end time %g ms: %w", c.EndTime, dynamo.ErrInvalidGrid)
	}
	if n := c.count(c.EndTime); n < 2 {
		return fmt.Errorf("%d grid points over %g ms: %w", n, c.EndTime, dynamo.ErrInvalidGrid)
	}
	if c.Cutoff == 0 {
		return nil
	}
	if c.Cutoff < 0 || c.Cutoff >= c.EndTime {
		return fmt.Errorf("cutoff %g ms outside (0, %g): %w", c.Cutoff, c.EndTime, dynamo.ErrInvalidGrid)
	}
	before, after := c.phaseCounts()
	if before < 2 || after < 2 {
		return fmt.Errorf("cutoff phases have %d and %d grid points: %w", before, after, dynamo.ErrInvalidGrid)
	}
	return nil
}

func (c Config) count(span float64) int {
	return int(span * c.StepsPerMs)
}

func (c Config) phaseCounts() (before, after int) {
	return c.count(c.Cutoff), c.count(c.EndTime - c.Cutoff)
}

// Result is a completed run. Times, Velocity, Displacement and Samples are
// index-aligned.
type Result struct {
	Times        []float64          `json:"time"`
	Velocity     []float64          `json:"velocity"`
	Displacement []float64          `json:"displacement"`
	Samples      []dynamo.Sample    `json:"-"`
	Metrics      map[string]float64 `json:"metrics"`
	// Degraded is set when the thrust data was unavailable and the run used
	// zero thrust.
	Degraded bool `json:"degraded"`
}

// Len is the number of grid points.
func (r *Result) Len() int { return len(r.Times) }
