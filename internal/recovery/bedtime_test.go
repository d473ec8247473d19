package recovery

import (
	"math"
	"testing"
	"time"
)

// onset builds a night-long sleep sample starting at the given clock time
// on the given day, ending the next morning
func onset(day int, hour, minute int, stage SleepStage) StageInterval {
	if hour < 12 {
		// A past-midnight bedtime belongs to the night of the previous
		// evening, so build it on the following calendar day
		start := time.Date(2025, 3, day+1, hour, minute, 0, 0, time.UTC)
		return StageInterval{Start: start, End: start.Add(6 * time.Hour), Stage: stage}
	}
	start := time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
	return StageInterval{Start: start, End: start.Add(8 * time.Hour), Stage: stage}
}

func TestComputeBedtimeConsistency(t *testing.T) {
	tests := []struct {
		name       string
		samples    []StageInterval
		windowDays int
		checkFn    func(t *testing.T, c *BedtimeConsistency)
	}{
		{
			name: "fewer than three nights",
			samples: []StageInterval{
				onset(10, 23, 0, StageCore),
				onset(11, 23, 0, StageCore),
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c != nil {
					t.Errorf("expected nil for 2 nights, got %+v", c)
				}
			},
		},
		{
			name: "identical bedtimes are stable",
			samples: []StageInterval{
				onset(10, 23, 30, StageCore),
				onset(11, 23, 30, StageCore),
				onset(12, 23, 30, StageCore),
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c == nil {
					t.Fatal("expected consistency, got nil")
				}
				if c.StdDevMinutes != 0 {
					t.Errorf("StdDevMinutes = %v, want 0", c.StdDevMinutes)
				}
				if c.Category() != BedtimeStable {
					t.Errorf("Category() = %v, want Stable", c.Category())
				}
				if c.AverageClock() != "23:30" {
					t.Errorf("AverageClock() = %v, want 23:30", c.AverageClock())
				}
				if c.NightsSampled != 3 {
					t.Errorf("NightsSampled = %v, want 3", c.NightsSampled)
				}
			},
		},
		{
			name: "ordering holds across midnight",
			samples: []StageInterval{
				onset(10, 23, 0, StageCore), // 1380
				onset(11, 0, 0, StageCore),  // 1440
				onset(12, 1, 0, StageCore),  // 1500
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c == nil {
					t.Fatal("expected consistency, got nil")
				}
				if c.NightsSampled != 3 {
					t.Errorf("NightsSampled = %v, want 3 distinct nights", c.NightsSampled)
				}
				if !almostEqual(c.AverageMinutes, 1440) {
					t.Errorf("AverageMinutes = %v, want 1440", c.AverageMinutes)
				}
				if c.AverageClock() != "00:00" {
					t.Errorf("AverageClock() = %v, want 00:00", c.AverageClock())
				}
				// Population sd of {1380, 1440, 1500} is ~48.99 -> Variable
				if math.Abs(c.StdDevMinutes-48.99) > 0.01 {
					t.Errorf("StdDevMinutes = %v, want ~48.99", c.StdDevMinutes)
				}
				if c.Category() != BedtimeVariable {
					t.Errorf("Category() = %v, want Variable", c.Category())
				}
			},
		},
		{
			name: "wide spread is irregular",
			samples: []StageInterval{
				onset(10, 22, 0, StageCore),
				onset(11, 0, 0, StageCore),
				onset(12, 2, 0, StageCore),
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c == nil {
					t.Fatal("expected consistency, got nil")
				}
				if c.Category() != BedtimeIrregular {
					t.Errorf("Category() = %v, want Irregular (sd %v)", c.Category(), c.StdDevMinutes)
				}
			},
		},
		{
			name: "naps are excluded",
			samples: []StageInterval{
				onset(10, 23, 0, StageCore),
				onset(11, 23, 0, StageCore),
				// Afternoon naps must not count as bedtimes
				{Start: time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), Stage: StageCore},
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c != nil {
					t.Errorf("expected nil with only 2 eligible nights, got %+v", c)
				}
			},
		},
		{
			name: "earliest onset per night wins",
			samples: []StageInterval{
				onset(10, 23, 0, StageInBed),
				onset(10, 23, 45, StageCore), // same night, later
				onset(11, 23, 0, StageCore),
				onset(12, 23, 0, StageCore),
			},
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c == nil {
					t.Fatal("expected consistency, got nil")
				}
				if c.NightsSampled != 3 {
					t.Errorf("NightsSampled = %v, want 3", c.NightsSampled)
				}
				if c.StdDevMinutes != 0 {
					t.Errorf("StdDevMinutes = %v, want 0 (23:45 sample should lose to 23:00)", c.StdDevMinutes)
				}
			},
		},
		{
			name: "window keeps only recent nights",
			samples: []StageInterval{
				onset(1, 20, 0, StageCore), // old outlier
				onset(10, 23, 0, StageCore),
				onset(11, 23, 0, StageCore),
				onset(12, 23, 0, StageCore),
			},
			windowDays: 3,
			checkFn: func(t *testing.T, c *BedtimeConsistency) {
				if c == nil {
					t.Fatal("expected consistency, got nil")
				}
				if c.NightsSampled != 3 {
					t.Errorf("NightsSampled = %v, want 3", c.NightsSampled)
				}
				if c.StdDevMinutes != 0 {
					t.Errorf("StdDevMinutes = %v, want 0 after trimming the outlier", c.StdDevMinutes)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, ComputeBedtimeConsistency(tt.samples, tt.windowDays, time.UTC))
		})
	}
}
