package thrust

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/tethersim/internal/dynamo"
)

// Summary describes the decay of a thrust curve.
type Summary struct {
	Samples      int     `json:"samples"`
	DurationMs   float64 `json:"duration_ms"`
	Peak         float64 `json:"peak_N"`
	PeakTimeMs   float64 `json:"peak_time_ms"`
	Final        float64 `json:"final_N"`
	Decay        float64 `json:"decay_N"`
	TotalImpulse float64 `json:"total_impulse_Ns"`
	// HalfDecayMs is the first time at or after the peak where thrust has
	// fallen to half of it, or -1.
	HalfDecayMs float64 `json:"half_decay_ms"`
}

// Summarize computes the decay summary of s.
func Summarize(s *Series) Summary {
	peakIdx := floats.MaxIdx(s.thrust)
	peak := s.thrust[peakIdx]
	final := s.thrust[len(s.thrust)-1]
	sum := Summary{
		Samples:      s.Len(),
		DurationMs:   s.DurationMs(),
		Peak:         peak,
		PeakTimeMs:   s.Time(peakIdx),
		Final:        final,
		Decay:        peak - final,
		TotalImpulse: s.TotalImpulse(),
		HalfDecayMs:  -1,
	}
	half := peak * 0.5
	for i := peakIdx; i < len(s.thrust); i++ {
		if s.thrust[i] <= half {
			sum.HalfDecayMs = s.Time(i)
			break
		}
	}
	return sum
}

// AttemptStats are the per-firing figures used for repeatability.
type AttemptStats struct {
	Peak    float64 `json:"peak_N"`
	Min     float64 `json:"min_N"`
	Impulse float64 `json:"impulse_Ns"`
	Mean    float64 `json:"mean_N"`
	StdDev  float64 `json:"std_dev_N"`
}

// Grade is the label attached to a single consistency figure.
type Grade string

const (
	GradeExcellent  Grade = "EXCELLENT"
	GradeGood       Grade = "GOOD"
	GradeAcceptable Grade = "ACCEPTABLE"
	GradePoor       Grade = "POOR"
)

// GradeCV grades a coefficient of variation given in percent.
func GradeCV(cv float64) Grade {
	switch {
	case cv < 5:
		return GradeExcellent
	case cv < 10:
		return GradeGood
	case cv < 15:
		return GradeAcceptable
	default:
		return GradePoor
	}
}

// GradeCorrelation grades an average inter-attempt correlation.
func GradeCorrelation(r float64) Grade {
	switch {
	case r > 0.95:
		return GradeExcellent
	case r > 0.90:
		return GradeGood
	case r > 0.80:
		return GradeAcceptable
	default:
		return GradePoor
	}
}

// Repeatability is the consistency report across firings.
type Repeatability struct {
	Attempts       []AttemptStats `json:"attempts"`
	PeakCV         float64        `json:"peak_cv_pct"`
	ImpulseCV      float64        `json:"impulse_cv_pct"`
	MeanCV         float64        `json:"mean_cv_pct"`
	Correlations   []float64      `json:"correlations"`
	AvgCorrelation float64        `json:"avg_correlation"`
	Score          int            `json:"validity_score"`
	Assessment     string         `json:"assessment"`
}

// Analyze compares the individual firings. It needs at least two attempts
// of at least two samples each.
func Analyze(a *Attempts) (*Repeatability, error) {
	if len(a.Runs) < 2 || a.Len() < 2 {
		return nil, fmt.Errorf("need two attempts of two samples, have %d of %d: %w",
			len(a.Runs), a.Len(), dynamo.ErrDataUnavailable)
	}
	ts := a.Times()
	rep := &Repeatability{Attempts: make([]AttemptStats, len(a.Runs))}
	peaks := make([]float64, len(a.Runs))
	impulses := make([]float64, len(a.Runs))
	means := make([]float64, len(a.Runs))
	for i, run := range a.Runs {
		mean, std := stat.MeanStdDev(run, nil)
		rep.Attempts[i] = AttemptStats{
			Peak:    floats.Max(run),
			Min:     floats.Min(run),
			Impulse: integrate.Trapezoidal(ts, run),
			Mean:    mean,
			StdDev:  std,
		}
		peaks[i] = rep.Attempts[i].Peak
		impulses[i] = rep.Attempts[i].Impulse
		means[i] = mean
	}
	rep.PeakCV = coefficientOfVariation(peaks)
	rep.ImpulseCV = coefficientOfVariation(impulses)
	rep.MeanCV = coefficientOfVariation(means)

	for i := range a.Runs {
		for j := i + 1; j < len(a.Runs); j++ {
			rep.Correlations = append(rep.Correlations, stat.Correlation(a.Runs[i], a.Runs[j], nil))
		}
	}
	rep.AvgCorrelation = stat.Mean(rep.Correlations, nil)

	for _, cv := range []float64{rep.PeakCV, rep.ImpulseCV, rep.MeanCV} {
		if cv < 10 {
			rep.Score++
		}
	}
	if rep.AvgCorrelation > 0.90 {
		rep.Score++
	}
	rep.Assessment = assess(rep.Score)
	return rep, nil
}

// coefficientOfVariation uses the population standard deviation, in percent.
func coefficientOfVariation(xs []float64) float64 {
	mean, std := stat.PopMeanStdDev(xs, nil)
	return std / mean * 100
}

func assess(score int) string {
	switch score {
	case 4:
		return "HIGHLY VALID - Excellent repeatability"
	case 3:
		return "VALID - Good repeatability with minor variations"
	case 2:
		return "MODERATELY VALID - Acceptable with some concerns"
	default:
		return "QUESTIONABLE - Poor repeatability, review test conditions"
	}
}
