package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/tethersim/internal/sim"
)

const (
	DefaultImageWidth  = 8 * vg.Inch
	DefaultImageHeight = 9 * vg.Inch
)

var (
	thrustColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	dragColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

// PNG stacks velocity, displacement and the thrust/drag forces against time
// and writes the chart as a PNG image.
func PNG(w io.Writer, r *sim.Result, width, height vg.Length) error {
	if r.Len() < 2 {
		return fmt.Errorf("chart needs at least 2 samples, have %d", r.Len())
	}

	velocity, err := linePlot("velocity", "v (m/s)", r.Times, r.Velocity)
	if err != nil {
		return err
	}
	displacement, err := linePlot("displacement", "x (m)", r.Times, r.Displacement)
	if err != nil {
		return err
	}
	forces, err := forcePlot(r)
	if err != nil {
		return err
	}

	plots := [][]*plot.Plot{{velocity}, {displacement}, {forces}}
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(vgimg.DefaultDPI))
	dc := draw.New(c)
	tiles := draw.Tiles{Rows: len(plots), Cols: 1, PadY: vg.Millimeter * 4, PadTop: vg.Millimeter * 2}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func linePlot(title, ylabel string, xs, ys []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (ms)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

func forcePlot(r *sim.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "forces"
	p.X.Label.Text = "t (ms)"
	p.Y.Label.Text = "F (N)"
	p.Add(plotter.NewGrid())

	n := len(r.Samples)
	thrust := make([]float64, n)
	drag := make([]float64, n)
	times := make([]float64, n)
	for i, s := range r.Samples {
		times[i], thrust[i], drag[i] = s.T, s.Thrust, s.Drag
	}

	for _, series := range []struct {
		name  string
		ys    []float64
		color color.Color
	}{
		{"thrust", thrust, thrustColor},
		{"drag", drag, dragColor},
	} {
		line, err := plotter.NewLine(xys(times, series.ys))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", series.name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = series.color
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Legend.Top = true
	return p, nil
}
