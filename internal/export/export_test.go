package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image/png"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/sim"
)

func testResult() *sim.Result {
	r := &sim.Result{Metrics: map[string]float64{"max_velocity": 3, "final_velocity": 2}}
	for i := 0; i < 5; i++ {
		t := float64(i) * 10
		v := float64(i) * 0.5
		r.Times = append(r.Times, t)
		r.Velocity = append(r.Velocity, v)
		r.Displacement = append(r.Displacement, v*t*0.001)
		r.Samples = append(r.Samples, dynamo.Sample{T: t, V: v, X: v * t * 0.001,
			Forces: dynamo.Forces{Thrust: 5, Drag: v * v, Tether: 2, Mass: 48}})
	}
	return r
}

func TestIndices(t *testing.T) {
	tests := []struct {
		n, every int
		want     []int
	}{
		{0, 1, nil},
		{5, 1, []int{0, 1, 2, 3, 4}},
		{5, 2, []int{0, 2, 4}},
		{6, 4, []int{0, 4, 5}},
		{3, 0, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		if got := Indices(tt.n, tt.every); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Indices(%d, %d) = %v, want %v", tt.n, tt.every, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{Model: "vehicle", Integrator: "rk4", Config: sim.DefaultConfig()}
	if err := JSON(&buf, meta, testResult(), 2); err != nil {
		t.Fatal(err)
	}

	var got Data
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Model != "vehicle" || got.Steps != 5 {
		t.Errorf("meta = %+v", got.Meta)
	}
	if !reflect.DeepEqual(got.Series.Time, []float64{0, 20, 40}) {
		t.Errorf("time = %v", got.Series.Time)
	}
	if got.Metrics["max_velocity"] != 3 {
		t.Errorf("metrics = %v", got.Metrics)
	}
	if !strings.Contains(buf.String(), `"displacement"`) {
		t.Error("expected displacement column")
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, testResult(), 1); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "time_ms" || len(rows[0]) != 11 {
		t.Errorf("header = %v", rows[0])
	}
	if rows[3][0] != "20" || rows[3][1] != "1" || rows[3][4] != "1" {
		t.Errorf("row 3 = %v", rows[3])
	}
}

func TestMetricsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := MetricsCSV(&buf, testResult().Metrics); err != nil {
		t.Fatal(err)
	}
	want := "metric,value\nfinal_velocity,2\nmax_velocity,3\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, testResult(), DefaultImageWidth, DefaultImageHeight); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= cfg.Width {
		t.Errorf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPNG_TooShort(t *testing.T) {
	r := &sim.Result{Times: []float64{0}, Velocity: []float64{0}, Displacement: []float64{0}}
	if err := PNG(io.Discard, r, DefaultImageWidth, DefaultImageHeight); err == nil {
		t.Error("expected error for a single sample")
	}
}
