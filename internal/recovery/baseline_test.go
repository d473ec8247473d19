package recovery

import (
	"math"
	"testing"
	"time"
)

// readingsFrom spreads values over consecutive days ending at base
func readingsFrom(base time.Time, values ...float64) []TimedValue {
	out := make([]TimedValue, len(values))
	for i, v := range values {
		out[i] = TimedValue{Timestamp: base.AddDate(0, 0, -(len(values) - 1 - i)), Value: v}
	}
	return out
}

func TestComputeBaseline(t *testing.T) {
	base := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		readings   []TimedValue
		minSamples int
		checkFn    func(t *testing.T, b *Baseline)
	}{
		{
			name:     "below the statistical floor",
			readings: readingsFrom(base, 50, 52),
			checkFn: func(t *testing.T, b *Baseline) {
				if b != nil {
					t.Errorf("expected nil baseline for 2 readings, got %+v", b)
				}
			},
		},
		{
			name:     "three readings compute but are unreliable",
			readings: readingsFrom(base, 50, 52, 48),
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if b.IsReliable() {
					t.Error("3 samples should not be reliable at the default threshold")
				}
				if !almostEqual(b.Mean, 50) {
					t.Errorf("Mean = %v, want 50", b.Mean)
				}
			},
		},
		{
			name:     "five readings are reliable",
			readings: readingsFrom(base, 50, 52, 48, 51, 49),
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if !b.IsReliable() {
					t.Error("5 samples should be reliable at the default threshold")
				}
			},
		},
		{
			name:       "custom reliability threshold",
			readings:   readingsFrom(base, 50, 52, 48, 51, 49),
			minSamples: 7,
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if b.IsReliable() {
					t.Error("5 samples should not satisfy a threshold of 7")
				}
			},
		},
		{
			name:     "typical HRV week",
			readings: readingsFrom(base, 45, 50, 48, 52, 47, 49, 51),
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if math.Abs(b.Mean-48.857) > 0.001 {
					t.Errorf("Mean = %v, want ~48.857", b.Mean)
				}
				// Population sd: sqrt(sum((v-mean)^2)/n)
				if math.Abs(b.StdDev-2.2315) > 0.001 {
					t.Errorf("StdDev = %v, want ~2.2315", b.StdDev)
				}
				if math.Abs(b.CV-b.StdDev/b.Mean) > 1e-12 {
					t.Errorf("CV = %v, want sd/mean = %v", b.CV, b.StdDev/b.Mean)
				}
				if !b.IsReliable() {
					t.Error("7 samples should be reliable")
				}
				if !b.WindowStart.Equal(base.AddDate(0, 0, -6)) {
					t.Errorf("WindowStart = %v, want %v", b.WindowStart, base.AddDate(0, 0, -6))
				}
				if !b.WindowEnd.Equal(base) {
					t.Errorf("WindowEnd = %v, want %v", b.WindowEnd, base)
				}
			},
		},
		{
			name:     "identical readings have zero spread",
			readings: readingsFrom(base, 55, 55, 55, 55, 55),
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if b.StdDev != 0 {
					t.Errorf("StdDev = %v, want 0", b.StdDev)
				}
				// Guard: no division by a zero sd
				if z := b.ZScore(60); z != 0 {
					t.Errorf("ZScore with zero sd = %v, want 0", z)
				}
			},
		},
		{
			name:     "zero mean guards CV and deviation",
			readings: readingsFrom(base, -5, 0, 5),
			checkFn: func(t *testing.T, b *Baseline) {
				if b == nil {
					t.Fatal("expected baseline, got nil")
				}
				if b.CV != 0 {
					t.Errorf("CV = %v, want 0 when mean is 0", b.CV)
				}
				if d := b.PercentDeviation(10); d != 0 {
					t.Errorf("PercentDeviation = %v, want 0 when mean is 0", d)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, ComputeBaseline(tt.readings, tt.minSamples))
		})
	}
}

func TestBaselineDeviationQueries(t *testing.T) {
	base := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	b := ComputeBaseline(readingsFrom(base, 45, 50, 48, 52, 47, 49, 51), 0)
	if b == nil {
		t.Fatal("expected baseline, got nil")
	}

	// Deviation sign tracks the reading's side of the mean
	if d := b.PercentDeviation(44); d >= 0 {
		t.Errorf("PercentDeviation(44) = %v, want negative", d)
	}
	if d := b.PercentDeviation(52); d <= 0 {
		t.Errorf("PercentDeviation(52) = %v, want positive", d)
	}
	if d := b.PercentDeviation(b.Mean); d != 0 {
		t.Errorf("PercentDeviation(mean) = %v, want 0", d)
	}

	// Worked number: 44 against the 48.857 mean is about -9.94%
	if d := b.PercentDeviation(44); math.Abs(d-(-9.9415)) > 0.01 {
		t.Errorf("PercentDeviation(44) = %v, want ~-9.94", d)
	}

	if z := b.ZScore(b.Mean); z != 0 {
		t.Errorf("ZScore(mean) = %v, want 0", z)
	}
	if z := b.ZScore(b.Mean + b.StdDev); math.Abs(z-1) > 1e-9 {
		t.Errorf("ZScore(mean+sd) = %v, want 1", z)
	}
}
