package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/experiment"
	"github.com/san-kum/tethersim/internal/export"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/sim"
	"github.com/san-kum/tethersim/internal/viz"
)

var (
	env    = viper.New()
	logger log.Logger

	preset      string
	integrator  string
	endTime     float64
	stepsPerMs  float64
	cutoff      float64
	v0          float64
	x0          float64
	thrustStep  float64
	placeholder float64
	threshold   float64
	params      []string

	plotWidth  int
	plotHeight int
	noPlot     bool

	format string
	every  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tethersim",
		Short:         "tethered vehicle thrust and drag simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(env.GetString("log-level"))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file path (yaml) [TETHERSIM_CONFIG]")
	pf.String("thrust", "", "thrust data file or URL; selects tabulated thrust [TETHERSIM_THRUST]")
	pf.String("log-level", "info", "log level: debug, info, warn, error [TETHERSIM_LOG_LEVEL]")
	env.SetEnvPrefix("TETHERSIM")
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	env.AutomaticEnv()
	for _, name := range []string{"config", "thrust", "log-level"} {
		if err := env.BindPFlag(name, pf.Lookup(name)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and plot velocity and displacement",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&plotWidth, "width", viz.DefaultPlotWidth, "plot width")
	runCmd.Flags().IntVar(&plotHeight, "height", viz.DefaultPlotHeight, "plot height")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "print metrics only")

	exportCmd := &cobra.Command{
		Use:   "export [model]",
		Short: "run a simulation and write the trajectory to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	addRunFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "json", "output format: json, csv, metrics, png")
	exportCmd.Flags().IntVar(&every, "every", 1, "write every n-th sample")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.ListModels()
			if len(args) > 0 {
				models = args
			}
			for _, m := range models {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for model: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "interactively tune parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	addRunFlags(tuneCmd)

	rootCmd.AddCommand(runCmd, exportCmd, compareCmd, presetsCmd, tuneCmd, sweepCommand(), scenarioCommand(), thrustCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(name string) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(l, level.Allow(level.ParseDefault(name, level.InfoValue())))
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&integrator, "integrator", "rk4", "integrator: euler, rk4")
	f.Float64Var(&endTime, "end", config.DefaultEndTime, "end time (ms)")
	f.Float64Var(&stepsPerMs, "steps-per-ms", config.DefaultStepsPerMs, "grid points per millisecond")
	f.Float64Var(&cutoff, "cutoff", 0, "thrust cutoff time (ms), 0 for none")
	f.Float64Var(&v0, "v0", 0, "initial velocity (m/s)")
	f.Float64Var(&x0, "x0", 0, "initial displacement (m/s·ms)")
	f.Float64Var(&thrustStep, "thrust-step", 10, "thrust record spacing (ms)")
	f.Float64Var(&placeholder, "placeholder", config.DefaultPlaceholderThrust, "placeholder thrust (N)")
	f.Float64Var(&threshold, "distance", config.DefaultDistanceThreshold, "distance threshold (m)")
	f.StringArrayVar(&params, "set", nil, "model parameter as name=value (repeatable)")
}

// resolveConfig layers preset < config file < changed flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	model := config.ModelVehicle
	if len(args) > 0 {
		model = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Model = model
	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if path := env.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Model = model
		}
	}

	f := cmd.Flags()
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("end") {
		cfg.Grid.EndTime = endTime
	}
	if f.Changed("steps-per-ms") {
		cfg.Grid.StepsPerMs = stepsPerMs
	}
	if f.Changed("cutoff") {
		cfg.Grid.Cutoff = cutoff
	}
	if f.Changed("v0") {
		cfg.Initial.Velocity = v0
	}
	if f.Changed("x0") {
		cfg.Initial.Displacement = x0
	}
	if f.Changed("thrust-step") {
		cfg.Thrust.StepMs = thrustStep
	}
	if f.Changed("placeholder") {
		cfg.Thrust.Placeholder = placeholder
	}
	if f.Changed("distance") {
		cfg.Metrics.DistanceThreshold = threshold
	}
	if loc := env.GetString("thrust"); loc != "" {
		cfg.Thrust.Source = config.ThrustTabulated
		cfg.Thrust.Location = loc
	}
	for _, kv := range params {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected name=value", kv)
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		if err := cfg.Params().SetParam(name, val); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := experiment.New(cfg, experiment.WithLogger(logger)).Run(cmd.Context())
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "run complete", "model", cfg.Model, "steps", result.Len(), "elapsed", time.Since(start))

	if noPlot {
		fmt.Println(viz.MetricsTable(result.Metrics))
		return nil
	}
	fmt.Println(viz.RenderRun(result, plotWidth, plotHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	result, err := experiment.New(cfg, experiment.WithLogger(logger)).Run(cmd.Context())
	if err != nil {
		return err
	}

	switch format {
	case "json":
		meta := export.Meta{Model: cfg.Model, Integrator: cfg.Integrator, Config: cfg.SimConfig()}
		return export.JSON(os.Stdout, meta, result, every)
	case "csv":
		return export.CSV(os.Stdout, result, every)
	case "metrics":
		return export.MetricsCSV(os.Stdout, result.Metrics)
	case "png":
		return export.PNG(os.Stdout, result, export.DefaultImageWidth, export.DefaultImageHeight)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

var compareMetrics = []string{
	metrics.MaxVelocity,
	metrics.FinalVelocity,
	metrics.FinalDisplacement,
	metrics.TimeToDistance,
	metrics.DragEnergy,
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	names := args[1:]
	if len(names) == 0 {
		names = experiment.NewRegistry().ListIntegrators()
	}

	outcomes, err := experiment.New(cfg, experiment.WithLogger(logger)).Compare(cmd.Context(), names)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "integrator\tsamples")
	for _, m := range compareMetrics {
		fmt.Fprintf(w, "\t%s", m)
	}
	fmt.Fprintln(w)

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", o.Name, o.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d", o.Name, o.Result.Len())
		for _, m := range compareMetrics {
			fmt.Fprintf(w, "\t%s", viz.FormatMetric(m, o.Result.Metrics[m]))
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	writeVelocityDiffs(os.Stdout, outcomes)
	return nil
}

// writeVelocityDiffs compares every successful outcome against the first
// successful one.
func writeVelocityDiffs(w io.Writer, outcomes []sim.Outcome) {
	base := -1
	for i, o := range outcomes {
		if o.Err == nil {
			base = i
			break
		}
	}
	if base < 0 {
		return
	}
	baseline := outcomes[base]
	header := false
	for _, o := range outcomes[base+1:] {
		if o.Err != nil {
			continue
		}
		if !header {
			fmt.Fprintln(w)
			header = true
		}
		diff := o.Result.Metrics[metrics.FinalVelocity] - baseline.Result.Metrics[metrics.FinalVelocity]
		fmt.Fprintf(w, "%s vs %s: final velocity differs by %.3e m/s\n", o.Name, baseline.Name, diff)
	}
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so runs stay quiet
	runner := func(ctx context.Context, c config.Config) (*sim.Result, error) {
		return experiment.New(&c).Run(ctx)
	}
	p := tea.NewProgram(viz.NewTuner(cmd.Context(), cfg, runner), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
