// Package optim searches model parameter grids for the best run metric.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/experiment"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/numeric"
	"github.com/san-kum/tethersim/internal/sim"
	"github.com/san-kum/tethersim/internal/thrust"
)

// Cutoff addresses the grid cutoff rather than a model parameter.
const Cutoff = "cutoff"

// Axis is one swept parameter.
type Axis struct {
	Name   string
	Values []float64
}

// NewAxis spans count values from start to stop inclusive.
func NewAxis(name string, start, stop float64, count int) (Axis, error) {
	vals, err := numeric.Linspace(start, stop, count)
	if err != nil {
		return Axis{}, fmt.Errorf("axis %s: %w", name, err)
	}
	return Axis{Name: name, Values: vals}, nil
}

// Point is one evaluated grid point. Err is set when the run failed.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	axes     []Axis
	metric   string
	maximize bool
}

// NewGridSearch minimizes metric over the grid unless maximize is set.
func NewGridSearch(metric string, maximize bool, axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes, metric: metric, maximize: maximize}
}

// Search runs base once per grid point and returns the best point along with
// every evaluation in grid order. The thrust source is resolved once and
// shared by every point. Failed runs and a time_to_distance that was never
// reached are never best. A metric the runs do not report is an error.
func (g *GridSearch) Search(ctx context.Context, base *config.Config) (*Point, []Point, error) {
	src := experiment.New(base).Source(ctx)

	var points []Point
	if err := g.searchRecursive(ctx, 0, *base, src, map[string]float64{}, &points); err != nil {
		return nil, points, err
	}

	var best *Point
	bestScore := math.Inf(1)
	for i := range points {
		p := &points[i]
		if p.Err != nil {
			continue
		}
		if score := g.score(p.Value); score < bestScore {
			bestScore = score
			best = p
		}
	}
	if best == nil {
		return nil, points, fmt.Errorf("no grid point produced %s", g.metric)
	}
	return best, points, nil
}

func (g *GridSearch) score(v float64) float64 {
	if g.metric == metrics.TimeToDistance && v == numeric.NotReached {
		return math.Inf(1)
	}
	if g.maximize {
		return -v
	}
	return v
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, cfg config.Config, src thrust.Source, current map[string]float64, points *[]Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.axes) {
		p := Point{Params: maps.Clone(current)}
		result, err := runPoint(ctx, &cfg, src)
		if err != nil {
			p.Err = err
		} else {
			v, ok := result.Metrics[g.metric]
			if !ok {
				return fmt.Errorf("unknown metric %q", g.metric)
			}
			p.Value = v
		}
		*points = append(*points, p)
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := cfg
		if err := apply(&next, axis.Name, val); err != nil {
			return err
		}
		current[axis.Name] = val
		if err := g.searchRecursive(ctx, depth+1, next, src, current, points); err != nil {
			return err
		}
	}
	delete(current, axis.Name)
	return nil
}

func runPoint(ctx context.Context, cfg *config.Config, src thrust.Source) (*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := experiment.New(cfg).Simulator(src, cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, cfg.SimConfig())
}

func apply(cfg *config.Config, name string, v float64) error {
	if name == Cutoff {
		cfg.Grid.Cutoff = v
		return nil
	}
	return cfg.Params().SetParam(name, v)
}
