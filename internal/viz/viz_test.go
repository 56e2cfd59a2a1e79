package viz

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/tethersim/internal/config"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/numeric"
	"github.com/san-kum/tethersim/internal/sim"
)

func TestPlotSeries(t *testing.T) {
	out := PlotSeries([]float64{0, 1, 4, 9, 16}, 20, 5, "squares")
	if !strings.Contains(out, "squares") {
		t.Error("expected caption in plot")
	}
	if lines := strings.Count(out, "\n"); lines < 5 {
		t.Errorf("expected at least 5 lines, got %d", lines)
	}
	if PlotSeries(nil, 20, 5, "empty") == "" {
		t.Error("expected placeholder for empty series")
	}
}

func TestMetricsTable(t *testing.T) {
	out := MetricsTable(map[string]float64{
		metrics.TimeToDistance: numeric.NotReached,
		metrics.MaxVelocity:    12.5,
	})
	if !strings.Contains(out, "not reached") {
		t.Errorf("expected sentinel rendered as text: %q", out)
	}
	if strings.Index(out, metrics.MaxVelocity) > strings.Index(out, metrics.TimeToDistance) {
		t.Error("metrics should be sorted by name")
	}
	if !strings.Contains(out, "12.5000") {
		t.Errorf("expected formatted value: %q", out)
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil, 4) != "────" {
		t.Error("empty sparkline should be a rule")
	}
	if Sparkline([]float64{1, 2, 3}, 3) == "" {
		t.Error("expected sparkline output")
	}
}

type recorder struct {
	seen []config.Config
}

func (r *recorder) run(ctx context.Context, cfg config.Config) (*sim.Result, error) {
	r.seen = append(r.seen, cfg)
	return &sim.Result{
		Times:        []float64{0, 1},
		Velocity:     []float64{0, cfg.PointMass.Mass},
		Displacement: []float64{0, 1},
		Metrics:      map[string]float64{metrics.TimeToDistance: 42},
	}, nil
}

func deliver(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next
}

func TestTuner_InitialRun(t *testing.T) {
	rec := &recorder{}
	tu := NewTuner(context.Background(), config.GetPreset(config.ModelPointMass, "cutoff"), rec.run)

	deliver(t, tu, tu.Init())
	if tu.Result() == nil {
		t.Fatal("expected a result after the initial run")
	}
	if !strings.Contains(tu.View(), "42") {
		t.Error("expected eta in view")
	}
}

func TestTuner_AdjustSnapshots(t *testing.T) {
	rec := &recorder{}
	tu := NewTuner(context.Background(), config.GetPreset(config.ModelPointMass, "cutoff"), rec.run)
	deliver(t, tu, tu.Init())

	_, cmd := tu.Update(tea.KeyMsg{Type: tea.KeyRight})
	if tu.Config().PointMass.Mass != 51 {
		t.Errorf("mass = %v, want 51", tu.Config().PointMass.Mass)
	}
	deliver(t, tu, cmd)

	tu.Update(tea.KeyMsg{Type: tea.KeyDown})
	tu.Update(tea.KeyMsg{Type: tea.KeyDown})
	tu.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = tu.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if tu.Config().Grid.Cutoff != 1400 {
		t.Errorf("cutoff = %v, want 1400", tu.Config().Grid.Cutoff)
	}
	deliver(t, tu, cmd)

	if len(rec.seen) != 3 {
		t.Fatalf("runs = %d", len(rec.seen))
	}
	if rec.seen[0].PointMass.Mass != 50 || rec.seen[1].PointMass.Mass != 51 {
		t.Error("each run should see the configuration at the time it started")
	}
	if rec.seen[1].Grid.Cutoff != 1500 || rec.seen[2].Grid.Cutoff != 1400 {
		t.Error("cutoff snapshots are wrong")
	}
}

func TestTuner_DropsStaleResults(t *testing.T) {
	rec := &recorder{}
	tu := NewTuner(context.Background(), config.GetPreset(config.ModelPointMass, "constant"), rec.run)

	stale := tu.Init()
	_, fresh := tu.Update(tea.KeyMsg{Type: tea.KeyRight})

	deliver(t, tu, fresh)
	deliver(t, tu, stale)

	if got := tu.Result().Velocity[1]; got != 51 {
		t.Errorf("stale result replaced the latest one: %v", got)
	}
}

func TestTuner_Quit(t *testing.T) {
	tu := NewTuner(context.Background(), config.DefaultConfig(), (&recorder{}).run)
	_, cmd := tu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

// blockingRun waits for cancellation on its first call and reports whether
// it came. Later calls return immediately.
type blockingRun struct {
	started   chan struct{}
	cancelled chan bool
	calls     atomic.Int32
	rec       recorder
}

func newBlockingRun() *blockingRun {
	return &blockingRun{started: make(chan struct{}), cancelled: make(chan bool, 1)}
}

func (b *blockingRun) run(ctx context.Context, cfg config.Config) (*sim.Result, error) {
	if b.calls.Add(1) > 1 {
		return b.rec.run(ctx, cfg)
	}
	close(b.started)
	select {
	case <-ctx.Done():
		b.cancelled <- true
	case <-time.After(5 * time.Second):
		b.cancelled <- false
	}
	return nil, ctx.Err()
}

func TestTuner_CancelsSupersededRun(t *testing.T) {
	br := newBlockingRun()
	tu := NewTuner(context.Background(), config.GetPreset(config.ModelPointMass, "constant"), br.run)

	first := tu.Init()
	go first()
	<-br.started

	_, next := tu.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !<-br.cancelled {
		t.Fatal("superseded run kept running")
	}
	deliver(t, tu, next)
	if tu.Result() == nil || tu.Result().Velocity[1] != 51 {
		t.Error("expected the latest run's result")
	}
}

func TestTuner_QuitCancelsRun(t *testing.T) {
	br := newBlockingRun()
	tu := NewTuner(context.Background(), config.GetPreset(config.ModelPointMass, "constant"), br.run)

	go tu.Init()()
	<-br.started
	tu.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !<-br.cancelled {
		t.Error("quitting should cancel the run in flight")
	}
}

func TestTuner_ParentContext(t *testing.T) {
	br := newBlockingRun()
	ctx, cancel := context.WithCancel(context.Background())
	tu := NewTuner(ctx, config.GetPreset(config.ModelPointMass, "constant"), br.run)

	go tu.Init()()
	<-br.started
	cancel()
	if !<-br.cancelled {
		t.Error("cancelling the program context should stop the run")
	}
}

func TestTuner_ThrustKnobHiddenForTabulatedData(t *testing.T) {
	has := func(tu *Tuner) bool {
		return strings.Contains(tu.View(), "thrust ")
	}
	placeholder := NewTuner(context.Background(), config.GetPreset(config.ModelVehicle, "baseline"), (&recorder{}).run)
	if !has(placeholder) {
		t.Error("placeholder thrust should be tunable")
	}
	tabulated := NewTuner(context.Background(), config.GetPreset(config.ModelVehicle, "tabulated"), (&recorder{}).run)
	if has(tabulated) {
		t.Error("thrust knob should be hidden when thrust comes from data")
	}
}
