package metrics

import "github.com/san-kum/tethersim/internal/dynamo"

// BurnAverage is the mean thrust over samples where the motor is firing.
type BurnAverage struct {
	threshold float64
	sum       float64
	samples   int
}

func NewBurnAverage(threshold float64) *BurnAverage {
	return &BurnAverage{threshold: threshold}
}

func (b *BurnAverage) Name() string { return AvgBurnThrust }

func (b *BurnAverage) Observe(s dynamo.Sample) {
	if s.Thrust > b.threshold {
		b.sum += s.Thrust
		b.samples++
	}
}

func (b *BurnAverage) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *BurnAverage) Reset() {
	b.sum = 0
	b.samples = 0
}

// Work accumulates F·dx over the trajectory using the force at the end of
// each interval. The first sample only sets the starting position.
type Work struct {
	name    string
	force   Extractor
	total   float64
	prevX   float64
	samples int
}

func NewWork(name string, force Extractor) *Work {
	return &Work{name: name, force: force}
}

func (w *Work) Name() string { return w.name }

func (w *Work) Observe(s dynamo.Sample) {
	if w.samples > 0 {
		w.total += w.force(s) * (s.X - w.prevX)
	}
	w.prevX = s.X
	w.samples++
}

func (w *Work) Value() float64 { return w.total }

func (w *Work) Reset() {
	w.total = 0
	w.prevX = 0
	w.samples = 0
}
