package recovery

import (
	"math"
	"time"
)

const (
	// MinBaselineSamples is the absolute floor below which statistics are
	// meaningless; ComputeBaseline returns nil under it
	MinBaselineSamples = 3
	// DefaultReliableSamples is the default sample count at which a
	// baseline is reliable enough to score against
	DefaultReliableSamples = 5
)

// Baseline is a personal trailing-window statistical reference for a noisy
// daily biomarker. It is recomputed on demand from fresh readings, never
// incrementally updated.
type Baseline struct {
	Mean        float64
	StdDev      float64 // population standard deviation
	CV          float64 // coefficient of variation, sd/mean
	SampleCount int
	WindowStart time.Time
	WindowEnd   time.Time

	minSamples int
}

// ComputeBaseline computes mean, population standard deviation and CV over
// the given readings. The window is treated as the full population of
// interest, so the variance divisor is n rather than n-1. Returns nil below
// MinBaselineSamples readings. A minSamples of zero or less selects
// DefaultReliableSamples.
func ComputeBaseline(readings []TimedValue, minSamples int) *Baseline {
	if len(readings) < MinBaselineSamples {
		return nil
	}
	if minSamples <= 0 {
		minSamples = DefaultReliableSamples
	}

	b := &Baseline{
		SampleCount: len(readings),
		WindowStart: readings[0].Timestamp,
		WindowEnd:   readings[0].Timestamp,
		minSamples:  minSamples,
	}

	var sum float64
	for _, r := range readings {
		sum += r.Value
		if r.Timestamp.Before(b.WindowStart) {
			b.WindowStart = r.Timestamp
		}
		if r.Timestamp.After(b.WindowEnd) {
			b.WindowEnd = r.Timestamp
		}
	}
	b.Mean = sum / float64(len(readings))

	var sumSq float64
	for _, r := range readings {
		d := r.Value - b.Mean
		sumSq += d * d
	}
	b.StdDev = math.Sqrt(sumSq / float64(len(readings)))

	if b.Mean != 0 {
		b.CV = b.StdDev / b.Mean
	}

	return b
}

// IsReliable reports whether enough samples back this baseline
func (b *Baseline) IsReliable() bool {
	return b.SampleCount >= b.minSamples
}

// ZScore returns how many standard deviations x sits from the mean.
// Zero when the baseline has no spread.
func (b *Baseline) ZScore(x float64) float64 {
	if b.StdDev == 0 {
		return 0
	}
	return (x - b.Mean) / b.StdDev
}

// PercentDeviation returns x's deviation from the mean as a percentage
func (b *Baseline) PercentDeviation(x float64) float64 {
	if b.Mean == 0 {
		return 0
	}
	return (x - b.Mean) / b.Mean * 100
}
