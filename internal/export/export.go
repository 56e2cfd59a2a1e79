// Package export writes completed runs as JSON, CSV or a PNG chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/san-kum/tethersim/internal/sim"
)

// Meta identifies the run being exported.
type Meta struct {
	Model      string     `json:"model"`
	Integrator string     `json:"integrator"`
	Config     sim.Config `json:"config"`
}

type Data struct {
	Meta
	Steps    int                `json:"steps"`
	Degraded bool               `json:"degraded"`
	Metrics  map[string]float64 `json:"metrics"`
	Series   Columns            `json:"series"`
}

// Columns holds the sampled trajectory as parallel arrays.
type Columns struct {
	Time         []float64 `json:"time_ms"`
	Velocity     []float64 `json:"velocity"`
	Displacement []float64 `json:"displacement"`
	Thrust       []float64 `json:"thrust"`
	Drag         []float64 `json:"drag"`
	Lift         []float64 `json:"lift"`
	Bearing      []float64 `json:"bearing"`
	Tether       []float64 `json:"tether"`
	Mass         []float64 `json:"mass"`
	Impulse      []float64 `json:"impulse"`
}

var csvHeader = []string{
	"time_ms", "velocity", "displacement", "thrust", "drag",
	"lift", "bearing", "tether", "net", "mass", "impulse",
}

// Indices returns the sample indices kept when writing every n-th sample.
// The last sample is always kept.
func Indices(n, every int) []int {
	if n == 0 {
		return nil
	}
	if every < 1 {
		every = 1
	}
	idx := make([]int, 0, n/every+1)
	for i := 0; i < n; i += every {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

// NewData flattens a result, keeping every n-th sample.
func NewData(meta Meta, r *sim.Result, every int) *Data {
	idx := Indices(len(r.Samples), every)
	d := &Data{
		Meta:     meta,
		Steps:    r.Len(),
		Degraded: r.Degraded,
		Metrics:  r.Metrics,
	}
	c := &d.Series
	for _, i := range idx {
		s := r.Samples[i]
		c.Time = append(c.Time, s.T)
		c.Velocity = append(c.Velocity, s.V)
		c.Displacement = append(c.Displacement, s.X)
		c.Thrust = append(c.Thrust, s.Thrust)
		c.Drag = append(c.Drag, s.Drag)
		c.Lift = append(c.Lift, s.Lift)
		c.Bearing = append(c.Bearing, s.Bearing)
		c.Tether = append(c.Tether, s.Tether)
		c.Mass = append(c.Mass, s.Mass)
		c.Impulse = append(c.Impulse, s.Impulse)
	}
	return d
}

func JSON(w io.Writer, meta Meta, r *sim.Result, every int) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewData(meta, r, every))
}

// CSV writes one row per kept sample under a header row.
func CSV(w io.Writer, r *sim.Result, every int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	row := make([]string, len(csvHeader))
	for _, i := range Indices(len(r.Samples), every) {
		s := r.Samples[i]
		for j, v := range []float64{s.T, s.V, s.X, s.Thrust, s.Drag, s.Lift, s.Bearing, s.Tether, s.Net, s.Mass, s.Impulse} {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MetricsCSV writes name,value rows sorted by name.
func MetricsCSV(w io.Writer, metrics map[string]float64) error {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	for _, name := range names {
		if err := cw.Write([]string{name, strconv.FormatFloat(metrics[name], 'g', -1, 64)}); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
