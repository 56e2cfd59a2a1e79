package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/optim"
	"github.com/san-kum/tethersim/internal/viz"
)

var (
	axes      []string
	objective string
	maximize  bool
)

func sweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "search a parameter grid for the best metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	addRunFlags(cmd)
	f := cmd.Flags()
	f.StringArrayVar(&axes, "axis", nil, "swept parameter as name=start:stop:count (repeatable)")
	f.StringVar(&objective, "metric", metrics.TimeToDistance, "metric to optimize")
	f.BoolVar(&maximize, "maximize", false, "maximize the metric instead of minimizing")
	return cmd
}

// parseAxis reads name=start:stop:count.
func parseAxis(arg string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return optim.Axis{}, fmt.Errorf("--axis %q: expected name=start:stop:count", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("--axis %q: expected name=start:stop:count", arg)
	}
	start, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("--axis %s start: %w", name, err)
	}
	stop, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("--axis %s stop: %w", name, err)
	}
	count, err := strconv.Atoi(parts[2])
	if err != nil {
		return optim.Axis{}, fmt.Errorf("--axis %s count: %w", name, err)
	}
	return optim.NewAxis(name, start, stop, count)
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("at least one --axis is required")
	}
	grid := make([]optim.Axis, 0, len(axes))
	for _, arg := range axes {
		a, err := parseAxis(arg)
		if err != nil {
			return err
		}
		grid = append(grid, a)
	}

	best, points, err := optim.NewGridSearch(objective, maximize, grid...).Search(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "sweep complete", "model", cfg.Model, "points", len(points), "metric", objective)

	names := make([]string, len(grid))
	for i, a := range grid {
		names[i] = a.Name
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), objective)
	for _, p := range points {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
			continue
		}
		fmt.Fprintln(w, viz.FormatMetric(objective, p.Value))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("\nbest %s = %s at", objective, viz.FormatMetric(objective, best.Value))
	for _, k := range keys {
		fmt.Printf(" %s=%g", k, best.Params[k])
	}
	fmt.Println()
	return nil
}
