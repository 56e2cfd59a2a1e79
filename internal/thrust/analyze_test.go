package thrust

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/tethersim/internal/dynamo"
)

func TestSummarize(t *testing.T) {
	s, err := NewSeries(10, []float64{3, 8, 6, 4, 5, 2}, []float64{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	sum := Summarize(s)
	if sum.Samples != 6 || sum.DurationMs != 50 {
		t.Errorf("samples/duration = %d/%v", sum.Samples, sum.DurationMs)
	}
	if sum.Peak != 8 || sum.PeakTimeMs != 10 {
		t.Errorf("peak = %v at %v", sum.Peak, sum.PeakTimeMs)
	}
	if sum.Final != 2 || sum.Decay != 6 {
		t.Errorf("final/decay = %v/%v", sum.Final, sum.Decay)
	}
	// 3 at t=0 is below half of the peak but precedes it
	if sum.HalfDecayMs != 30 {
		t.Errorf("half decay = %v, want 30", sum.HalfDecayMs)
	}
}

func TestSummarize_NoHalfDecay(t *testing.T) {
	s, _ := NewSeries(10, []float64{10, 9, 8}, []float64{0, 1, 2})
	if got := Summarize(s).HalfDecayMs; got != -1 {
		t.Errorf("half decay = %v, want -1", got)
	}
}

func TestGrades(t *testing.T) {
	cvs := map[float64]Grade{1: GradeExcellent, 7: GradeGood, 12: GradeAcceptable, 20: GradePoor}
	for cv, want := range cvs {
		if got := GradeCV(cv); got != want {
			t.Errorf("GradeCV(%v) = %s, want %s", cv, got, want)
		}
	}
	corr := map[float64]Grade{0.99: GradeExcellent, 0.92: GradeGood, 0.85: GradeAcceptable, 0.5: GradePoor}
	for r, want := range corr {
		if got := GradeCorrelation(r); got != want {
			t.Errorf("GradeCorrelation(%v) = %s, want %s", r, got, want)
		}
	}
}

func TestAnalyze_Consistent(t *testing.T) {
	in := `10,10.2,9.8,10,10
8,8.1,7.9,8,8
5,5.1,4.9,5,5
2,2.0,2.1,2,2
`
	a, err := ReadAttempts(strings.NewReader(in), 10)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Analyze(a)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Attempts) != 4 || len(rep.Correlations) != 6 {
		t.Fatalf("attempts/correlations = %d/%d", len(rep.Attempts), len(rep.Correlations))
	}
	if rep.Attempts[0].Peak != 10 || rep.Attempts[0].Min != 2 {
		t.Errorf("attempt 1 = %+v", rep.Attempts[0])
	}
	// (10+8)/2 + (8+5)/2 + (5+2)/2 = 19, times 0.01 s
	if !scalar.EqualWithinAbs(rep.Attempts[0].Impulse, 0.19, 1e-12) {
		t.Errorf("attempt 1 impulse = %v", rep.Attempts[0].Impulse)
	}
	if rep.Score != 4 {
		t.Errorf("score = %d, want 4 (%+v)", rep.Score, rep)
	}
	if !strings.HasPrefix(rep.Assessment, "HIGHLY VALID") {
		t.Errorf("assessment = %q", rep.Assessment)
	}
}

func TestAnalyze_Inconsistent(t *testing.T) {
	in := `10,1,5
1,10,5
5,5,5
`
	a, _ := ReadAttempts(strings.NewReader(in), 10)
	rep, err := Analyze(a)
	if err != nil {
		t.Fatal(err)
	}
	if rep.AvgCorrelation > 0 {
		t.Errorf("expected anti-correlated attempts, got %v", rep.AvgCorrelation)
	}
	if rep.Score > 3 {
		t.Errorf("score = %d", rep.Score)
	}
}

func TestAnalyze_TooFewAttempts(t *testing.T) {
	a, _ := ReadAttempts(strings.NewReader("1,1\n2,2\n"), 10)
	if _, err := Analyze(a); !errors.Is(err, dynamo.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}
