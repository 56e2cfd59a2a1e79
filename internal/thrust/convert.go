package thrust

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/integrators"
)

// Attempts is a bench measurement table: one column per firing plus the
// averaged column the simulation consumes.
type Attempts struct {
	StepMs  float64
	Runs    [][]float64
	Average []float64
}

// ReadAttempts parses headerless CSV rows of the form
// attempt1,...,attemptN,average.
func ReadAttempts(r io.Reader, stepMs float64) (*Attempts, error) {
	if stepMs <= 0 {
		return nil, fmt.Errorf("thrust step %.3f ms: %w", stepMs, dynamo.ErrParameterBounds)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var a *Attempts
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading attempts: %w", err)
		}
		line++
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: need at least one attempt and an average column", line)
		}
		if a == nil {
			a = &Attempts{StepMs: stepMs, Runs: make([][]float64, len(row)-1)}
		}
		if len(row)-1 != len(a.Runs) {
			return nil, fmt.Errorf("line %d: %d columns, expected %d", line, len(row), len(a.Runs)+1)
		}
		for i, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, i+1, err)
			}
			if i == len(row)-1 {
				a.Average = append(a.Average, v)
			} else {
				a.Runs[i] = append(a.Runs[i], v)
			}
		}
	}
	if a == nil {
		return nil, fmt.Errorf("no thrust rows: %w", dynamo.ErrDataUnavailable)
	}
	return a, nil
}

// Len is the number of rows.
func (a *Attempts) Len() int { return len(a.Average) }

// Times returns the sample timestamps in seconds.
func (a *Attempts) Times() []float64 {
	ts := make([]float64, a.Len())
	for i := range ts {
		ts[i] = float64(i) * a.StepMs * msToS
	}
	return ts
}

// Series integrates the average column with the trapezoid rule (dt in
// seconds) and returns it as a thrust Series.
func (a *Attempts) Series() (*Series, error) {
	if a.Len() == 0 {
		return nil, fmt.Errorf("no thrust rows: %w", dynamo.ErrDataUnavailable)
	}
	impulse := integrators.CumulativeTrapezoid(a.Times(), a.Average, 0)
	return NewSeries(a.StepMs, a.Average, impulse)
}

// Convert reads an attempts CSV and writes the averaged curve as a JSON
// thrust document.
func Convert(r io.Reader, w io.Writer, stepMs float64, description string) (*Document, error) {
	a, err := ReadAttempts(r, stepMs)
	if err != nil {
		return nil, err
	}
	s, err := a.Series()
	if err != nil {
		return nil, err
	}
	doc := NewDocument(s, description)
	if err := doc.Encode(w); err != nil {
		return nil, fmt.Errorf("writing thrust document: %w", err)
	}
	return doc, nil
}
