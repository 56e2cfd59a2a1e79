package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/sim"
)

// Runner executes one run for a configuration snapshot.
type Runner func(ctx context.Context, cfg config.Config) (*sim.Result, error)

type knob struct {
	name string
	step float64
}

// knobs per model. "cutoff" and "thrust" live outside the model parameters.
var knobs = map[string][]knob{
	config.ModelPointMass: {
		{"mass", 1},
		{"drag_k", 0.1},
		{"force", 0.1},
		{"cutoff", 100},
	},
	config.ModelVehicle: {
		{"total_mass", 1},
		{"drag_coeff", 0.0001},
		{"thrust", 0.5},
		{"tether_force", 0.1},
		{"co2_per_impulse", 0.1},
	},
}

type resultMsg struct {
	seq    int
	result *sim.Result
	err    error
}

// Tuner is a Bubble Tea model that re-runs the simulation whenever a
// parameter changes. Each run receives its own copy of the configuration.
// Starting a run cancels the one before it, and results from superseded runs
// are dropped.
type Tuner struct {
	ctx    context.Context
	cfg    config.Config
	run    Runner
	knobs  []knob
	cursor int

	seq     int
	cancel  context.CancelFunc
	running bool
	result  *sim.Result
	err     error

	width, height int
}

// NewTuner runs under ctx; cancelling it stops the run in flight.
func NewTuner(ctx context.Context, cfg *config.Config, run Runner) *Tuner {
	return &Tuner{
		ctx:    ctx,
		cfg:    *cfg,
		run:    run,
		knobs:  knobsFor(cfg),
		width:  80,
		height: 24,
	}
}

// knobsFor drops the placeholder thrust knob when thrust comes from data.
func knobsFor(cfg *config.Config) []knob {
	var out []knob
	for _, k := range knobs[cfg.Model] {
		if k.name == "thrust" && cfg.Thrust.Source == config.ThrustTabulated {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (t *Tuner) Config() config.Config { return t.cfg }
func (t *Tuner) Result() *sim.Result   { return t.result }

func (t *Tuner) Init() tea.Cmd { return t.rerun() }

func (t *Tuner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return t.handleKey(msg)
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
	case resultMsg:
		if msg.seq == t.seq {
			t.stop()
			t.running = false
			t.result, t.err = msg.result, msg.err
		}
	}
	return t, nil
}

func (t *Tuner) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		t.stop()
		return t, tea.Quit
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.knobs)-1 {
			t.cursor++
		}
	case "left", "h", "-":
		return t, t.adjust(-1)
	case "right", "l", "+", "=":
		return t, t.adjust(1)
	case "r":
		return t, t.rerun()
	}
	return t, nil
}

func (t *Tuner) adjust(dir float64) tea.Cmd {
	if len(t.knobs) == 0 {
		return nil
	}
	k := t.knobs[t.cursor]
	next := max(t.value(k.name)+dir*k.step, 0)
	if err := t.set(k.name, next); err != nil {
		t.err = err
		return nil
	}
	return t.rerun()
}

func (t *Tuner) value(name string) float64 {
	switch name {
	case "cutoff":
		return t.cfg.Grid.Cutoff
	case "thrust":
		return t.cfg.Thrust.Placeholder
	}
	return t.cfg.Params().GetParams()[name]
}

func (t *Tuner) set(name string, v float64) error {
	switch name {
	case "cutoff":
		t.cfg.Grid.Cutoff = v
		return nil
	case "thrust":
		t.cfg.Thrust.Placeholder = v
		return nil
	}
	return t.cfg.Params().SetParam(name, v)
}

func (t *Tuner) stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tuner) rerun() tea.Cmd {
	t.stop()
	ctx, cancel := context.WithCancel(t.ctx)
	t.cancel = cancel
	t.seq++
	t.running = true
	seq, snapshot, run := t.seq, t.cfg, t.run
	return func() tea.Msg {
		res, err := run(ctx, snapshot)
		return resultMsg{seq: seq, result: res, err: err}
	}
}

func (t *Tuner) View() string {
	var sb strings.Builder
	sb.WriteString(Title.Render("tethersim tuner · " + t.cfg.Model))
	sb.WriteString("\n\n")

	for i, k := range t.knobs {
		line := fmt.Sprintf("%-16s %10.5g", k.name, t.value(k.name))
		if i == t.cursor {
			sb.WriteString(Selected.Render("▸ " + line))
		} else {
			sb.WriteString(MetricLabel.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	switch {
	case t.running:
		sb.WriteString(StatusBusy.Render("running…"))
	case t.err != nil:
		sb.WriteString(StatusDegraded.Render("error: " + t.err.Error()))
	case t.result != nil && t.result.Degraded:
		sb.WriteString(StatusDegraded.Render("degraded: no thrust data"))
	default:
		sb.WriteString(StatusOK.Render("ready"))
	}
	sb.WriteString("\n")

	if t.result != nil && t.err == nil {
		eta := t.result.Metrics[metrics.TimeToDistance]
		sb.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			MetricLabel.Render(fmt.Sprintf("eta %.0f m:", t.cfg.Metrics.DistanceThreshold)),
			MetricValue.Render(FormatMetric(metrics.TimeToDistance, eta)),
			MetricLabel.Render("v max:"),
			MetricValue.Render(fmt.Sprintf("%.3f m/s", t.result.Metrics[metrics.MaxVelocity])),
		))
		sb.WriteString("\n")
		sb.WriteString(PlotSeries(t.result.Displacement, max(t.width-12, 20), max(t.height-len(t.knobs)-12, 5), "x [m] / t"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(KeyHint.Render("↑↓ select · ←→ adjust · r rerun · q quit"))
	return Panel.Render(sb.String())
}
