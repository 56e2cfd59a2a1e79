package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/numeric"
	"github.com/san-kum/tethersim/internal/sim"
)

const (
	DefaultPlotWidth  = 70
	DefaultPlotHeight = 12
)

// PlotSeries draws values as an ASCII chart resampled to width columns.
func PlotSeries(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return Subtle.Render("(no data)")
	}
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Cyan),
	)
}

// RenderRun shows the v-t and x-t charts followed by the metrics table.
func RenderRun(r *sim.Result, width, height int) string {
	var sb strings.Builder
	end := 0.0
	if r.Len() > 0 {
		end = r.Times[r.Len()-1]
	}
	sb.WriteString(PlotSeries(r.Velocity, width, height, fmt.Sprintf("v [m/s] over 0..%.0f ms", end)))
	sb.WriteString("\n\n")
	sb.WriteString(PlotSeries(r.Displacement, width, height, fmt.Sprintf("x [m] over 0..%.0f ms", end)))
	sb.WriteString("\n\n")
	sb.WriteString(MetricsTable(r.Metrics))
	if r.Degraded {
		sb.WriteString("\n")
		sb.WriteString(StatusDegraded.Render("thrust data unavailable: ran with zero thrust"))
	}
	return sb.String()
}

// MetricsTable lists metrics sorted by name.
func MetricsTable(m map[string]float64) string {
	names := make([]string, 0, len(m))
	width := 0
	for name := range m {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(MetricLabel.Render(fmt.Sprintf("%-*s", width, name)))
		sb.WriteString("  ")
		sb.WriteString(MetricValue.Render(FormatMetric(name, m[name])))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatMetric renders the not-reached sentinel of time_to_distance as text.
func FormatMetric(name string, v float64) string {
	if name == metrics.TimeToDistance && v == numeric.NotReached {
		return "not reached"
	}
	return fmt.Sprintf("%.4f", v)
}
