package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/integrators"
	"github.com/san-kum/tethersim/internal/physics"
	"github.com/san-kum/tethersim/internal/thrust"
)

// ModelFactory builds a model from a configuration snapshot. src is nil for
// models that carry their own force law.
type ModelFactory func(cfg config.Config, src thrust.Source) (dynamo.Model, error)

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models[config.ModelVehicle] = func(cfg config.Config, src thrust.Source) (dynamo.Model, error) {
		veh, err := physics.NewVehicle(cfg.Vehicle, src, cfg.Grid.EndTime)
		if err != nil {
			return nil, err
		}
		return veh, nil
	}
	r.models[config.ModelPointMass] = func(cfg config.Config, _ thrust.Source) (dynamo.Model, error) {
		pm, err := physics.NewPointMass(cfg.PointMass, cfg.Grid.Cutoff)
		if err != nil {
			return nil, err
		}
		return pm, nil
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetModel(name string, cfg config.Config, src thrust.Source) (dynamo.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(cfg, src)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
