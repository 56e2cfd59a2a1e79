// Package automation runs scripted sequences of simulations described in YAML.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/experiment"
	"github.com/san-kum/tethersim/internal/sim"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a scenario. Unset fields keep the preset or default
// value.
type Step struct {
	Name       string             `yaml:"name"`
	Model      string             `yaml:"model"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	EndTime    *float64           `yaml:"end_time"`
	StepsPerMs *float64           `yaml:"steps_per_ms"`
	Cutoff     *float64           `yaml:"cutoff"`
	Velocity   *float64           `yaml:"initial_velocity"`
	Thrust     string             `yaml:"thrust"`
	Params     map[string]float64 `yaml:"params"`
}

func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScenario(f)
}

func ParseScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", s.Name)
	}
	return &s, nil
}

// Config resolves the step against its preset.
func (st Step) Config() (*config.Config, error) {
	model := st.Model
	if model == "" {
		model = config.ModelVehicle
	}
	cfg := config.DefaultConfig()
	cfg.Model = model
	if st.Preset != "" {
		cfg = config.GetPreset(model, st.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", st.Preset)
		}
	}
	if st.Integrator != "" {
		cfg.Integrator = st.Integrator
	}
	if st.EndTime != nil {
		cfg.Grid.EndTime = *st.EndTime
	}
	if st.StepsPerMs != nil {
		cfg.Grid.StepsPerMs = *st.StepsPerMs
	}
	if st.Cutoff != nil {
		cfg.Grid.Cutoff = *st.Cutoff
	}
	if st.Velocity != nil {
		cfg.Initial.Velocity = *st.Velocity
	}
	if st.Thrust != "" {
		cfg.Thrust.Source = config.ThrustTabulated
		cfg.Thrust.Location = st.Thrust
	}

	names := make([]string, 0, len(st.Params))
	for k := range st.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := cfg.Params().SetParam(k, st.Params[k]); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

func (st Step) label(i int) string {
	if st.Name != "" {
		return st.Name
	}
	return fmt.Sprintf("step-%d", i+1)
}

// Run resolves every step before running any of them, so a bad step fails
// the scenario up front. Runs then proceed in order; a failing run is
// reported in its outcome.
func Run(ctx context.Context, s *Scenario, logger log.Logger) ([]sim.Outcome, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	jobs := make([]sim.Job, 0, len(s.Steps))
	for i, st := range s.Steps {
		cfg, err := st.Config()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.label(i), err)
		}
		exp := experiment.New(cfg, experiment.WithLogger(logger))
		runner, err := exp.Simulator(exp.Source(ctx), cfg.Integrator)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.label(i), err)
		}
		jobs = append(jobs, sim.Job{Name: st.label(i), Sim: runner, Config: cfg.SimConfig()})
	}

	level.Info(logger).Log("msg", "running scenario", "scenario", s.Name, "steps", len(jobs))
	return sim.RunBatch(ctx, jobs), nil
}
