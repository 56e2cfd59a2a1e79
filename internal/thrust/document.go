package thrust

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// Document is the on-disk form of a thrust curve.
type Document struct {
	Description     string            `json:"description,omitempty"`
	Units           map[string]string `json:"units,omitempty"`
	SamplingRate    string            `json:"sampling_rate,omitempty"`
	TotalDurationMs float64           `json:"total_duration_ms"`
	TotalImpulse    float64           `json:"total_impulse"`
	Data            []Record          `json:"data"`
}

// Record is one sample. TimeMs is informational; records are indexed by
// position.
type Record struct {
	TimeMs           float64 `json:"time_ms"`
	ThrustN          float64 `json:"thrust_N"`
	IntegratedThrust float64 `json:"integrated_thrust_Ns"`
}

// Decode reads a Document and builds a Series with the given record spacing.
func Decode(r io.Reader, stepMs float64) (*Series, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding thrust document: %w", err)
	}
	return doc.Series(stepMs)
}

// Series converts the records into a Series.
func (d *Document) Series(stepMs float64) (*Series, error) {
	if len(d.Data) == 0 {
		return nil, fmt.Errorf("thrust document has no records: %w", dynamo.ErrDataUnavailable)
	}
	thrust := make([]float64, len(d.Data))
	impulse := make([]float64, len(d.Data))
	for i, rec := range d.Data {
		thrust[i] = rec.ThrustN
		impulse[i] = rec.IntegratedThrust
	}
	return NewSeries(stepMs, thrust, impulse)
}

// NewDocument describes a Series in the measured-data layout.
func NewDocument(s *Series, description string) *Document {
	doc := &Document{
		Description: description,
		Units: map[string]string{
			"time":              "milliseconds",
			"thrust":            "Newtons",
			"integrated_thrust": "Newton-seconds (impulse)",
		},
		SamplingRate:    fmt.Sprintf("%gms intervals", s.StepMs()),
		TotalDurationMs: s.DurationMs(),
		TotalImpulse:    s.TotalImpulse(),
		Data:            make([]Record, s.Len()),
	}
	for i := range doc.Data {
		doc.Data[i] = Record{
			TimeMs:           s.Time(i),
			ThrustN:          s.thrust[i],
			IntegratedThrust: s.impulse[i],
		}
	}
	return doc
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
