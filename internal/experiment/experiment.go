// Package experiment assembles runnable simulations from a configuration.
package experiment

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/sim"
	"github.com/san-kum/tethersim/internal/thrust"
)

type Experiment struct {
	cfg      config.Config
	registry *Registry
	loader   *thrust.Loader
	logger   log.Logger
}

type Option func(*Experiment)

func WithLogger(l log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithLoader(l *thrust.Loader) Option {
	return func(e *Experiment) { e.loader = l }
}

// New snapshots cfg; later changes to the caller's copy are not seen.
func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      *cfg,
		registry: NewRegistry(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loader == nil {
		e.loader = thrust.NewLoader(e.cfg.Thrust.StepMs, e.logger)
	}
	return e
}

func (e *Experiment) Config() config.Config { return e.cfg }

// Source resolves the thrust source. A tabulated source that fails to load
// degrades to zero thrust instead of failing.
func (e *Experiment) Source(ctx context.Context) thrust.Source {
	if e.cfg.Model != config.ModelVehicle {
		return nil
	}
	if e.cfg.Thrust.Source == config.ThrustTabulated {
		return e.loader.LoadOrMissing(ctx, e.cfg.Thrust.Location)
	}
	return thrust.NewPlaceholder(e.cfg.Thrust.Placeholder)
}

// Simulator builds a simulator for src with the named integrator.
func (e *Experiment) Simulator(src thrust.Source, integrator string) (*sim.Simulator, error) {
	model, err := e.registry.GetModel(e.cfg.Model, e.cfg, src)
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(integrator)
	if err != nil {
		return nil, err
	}
	return sim.New(model, integ, sim.WithLogger(e.logger)), nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := e.Simulator(e.Source(ctx), e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	level.Info(e.logger).Log("msg", "running", "model", e.cfg.Model, "integrator", e.cfg.Integrator,
		"end_ms", e.cfg.Grid.EndTime, "steps_per_ms", e.cfg.Grid.StepsPerMs, "cutoff_ms", e.cfg.Grid.Cutoff)
	return s.Run(ctx, e.cfg.SimConfig())
}

// Compare runs the configuration once per integrator against
// a single shared thrust source.
func (e *Experiment) Compare(ctx context.Context, integrators []string) ([]sim.Outcome, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	src := e.Source(ctx)
	jobs := make([]sim.Job, 0, len(integrators))
	for _, name := range integrators {
		s, err := e.Simulator(src, name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, sim.Job{Name: name, Sim: s, Config: e.cfg.SimConfig()})
	}
	return sim.RunBatch(ctx, jobs), nil
}
