package sim

import (
	"context"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/integrators"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/numeric"
)

type Simulator struct {
	model      dynamo.Model
	integrator dynamo.Integrator
	extra      []metrics.Metric
	logger     log.Logger
}

type Option func(*Simulator)

func WithLogger(l log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithMetrics adds metrics reported alongside the standard set. Metrics are
// stateful, so a Simulator carrying them must not run concurrently.
func WithMetrics(ms ...metrics.Metric) Option {
	return func(s *Simulator) { s.extra = append(s.extra, ms...) }
}

func New(model dynamo.Model, integrator dynamo.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		model:      model,
		integrator: integrator,
		logger:     log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Model() dynamo.Model { return s.model }

// Run integrates the model over the configured grid, samples every force
// component and computes the run metrics. Any error leaves no partial
// result.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	times, velocity, err := s.integrate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if !dynamo.IsValid(velocity) {
		i := firstInvalid(velocity)
		return nil, &dynamo.SimulationError{Step: i, Time: times[i], Wrapped: dynamo.ErrInvalidState}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	displacement := numeric.Scale(
		integrators.CumulativeTrapezoid(times, velocity, cfg.InitialDisplacement),
		cfg.UnitScale,
	)

	samples := make([]dynamo.Sample, len(times))
	for i, t := range times {
		f := s.model.Forces(t, velocity[i])
		if f.Mass <= 0 {
			return nil, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrNegativeMass}
		}
		samples[i] = dynamo.Sample{T: t, V: velocity[i], X: displacement[i], Forces: f}
	}

	ms := append(metrics.Standard(cfg.BurnThreshold), s.extra...)
	result := &Result{
		Times:        times,
		Velocity:     velocity,
		Displacement: displacement,
		Samples:      samples,
		Metrics:      metrics.Collect(samples, ms...),
		Degraded:     s.model.Degraded(),
	}
	result.Metrics[metrics.TimeToDistance] = numeric.FirstCrossingX(times, displacement, cfg.DistanceThreshold)

	if result.Degraded {
		level.Warn(s.logger).Log("msg", "run completed without thrust data", "samples", len(times))
	}
	level.Debug(s.logger).Log("msg", "run complete", "samples", len(times),
		"cutoff_ms", cfg.Cutoff, "elapsed", time.Since(start),
		"max_velocity", result.Metrics[metrics.MaxVelocity])
	return result, nil
}

func (s *Simulator) integrate(ctx context.Context, cfg Config) (times, velocity []float64, err error) {
	if cfg.Cutoff == 0 {
		times, err = numeric.Linspace(0, cfg.EndTime, cfg.count(cfg.EndTime))
		if err != nil {
			return nil, nil, err
		}
		return times, s.integrator.Integrate(s.model.Acceleration, times, cfg.InitialVelocity), nil
	}

	before, after := dynamo.Derivative(s.model.Acceleration), dynamo.Derivative(s.model.Acceleration)
	if p, ok := s.model.(dynamo.Phased); ok {
		before, after = p.Phases(cfg.Cutoff)
	}
	n1, n2 := cfg.phaseCounts()

	t1, err := numeric.Linspace(0, cfg.Cutoff, n1)
	if err != nil {
		return nil, nil, err
	}
	v1 := s.integrator.Integrate(before, t1, cfg.InitialVelocity)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	t2, err := numeric.Linspace(cfg.Cutoff, cfg.EndTime, n2)
	if err != nil {
		return nil, nil, err
	}
	v2 := s.integrator.Integrate(after, t2, v1[len(v1)-1])

	// the boundary sample appears at the end of one phase and the start of
	// the next
	return numeric.Concat(t1, t2), numeric.Concat(v1, v2), nil
}

func firstInvalid(trace []float64) int {
	for i, v := range trace {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
