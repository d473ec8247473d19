package recovery

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// BedtimeCategory classifies how regular the user's bedtime is
type BedtimeCategory int

const (
	BedtimeStable    BedtimeCategory = iota // sd < 30 min
	BedtimeVariable                         // 30 <= sd < 60 min
	BedtimeIrregular                        // sd >= 60 min
)

func (c BedtimeCategory) String() string {
	switch c {
	case BedtimeStable:
		return "Stable"
	case BedtimeVariable:
		return "Variable"
	default:
		return "Irregular"
	}
}

// BedtimeConsistency summarizes sleep-onset regularity over recent nights
type BedtimeConsistency struct {
	// AverageMinutes is the mean bedtime in minutes from midnight, in the
	// cross-midnight normalized scale (23:30 -> 1410, 00:45 -> 1485)
	AverageMinutes float64
	StdDevMinutes  float64
	NightsSampled  int
}

// Category maps the bedtime spread onto a consistency label
func (c BedtimeConsistency) Category() BedtimeCategory {
	switch {
	case c.StdDevMinutes < 30:
		return BedtimeStable
	case c.StdDevMinutes < 60:
		return BedtimeVariable
	default:
		return BedtimeIrregular
	}
}

// AverageClock renders the average bedtime as wall-clock HH:MM
func (c BedtimeConsistency) AverageClock() string {
	m := int(math.Round(c.AverageMinutes)) % (24 * 60)
	if m < 0 {
		m += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ComputeBedtimeConsistency derives the average bedtime and its spread from
// raw stage intervals. Only in-bed or asleep samples whose local start hour
// falls in [18:00, 04:00) count, which excludes naps. Each sample is grouped
// into the night of its end date and the earliest start per night is the
// bedtime. Bedtimes are normalized to minutes-from-midnight with hours
// before noon pushed past 24h so same-night times stay ordered across the
// midnight boundary. Requires at least 3 distinct nights; windowDays > 0
// restricts to the most recent that many nights. Returns nil otherwise.
func ComputeBedtimeConsistency(samples []StageInterval, windowDays int, loc *time.Location) *BedtimeConsistency {
	if loc == nil {
		loc = time.Local
	}

	// Earliest eligible onset per night
	onsets := make(map[string]time.Time)
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		if s.Stage != StageInBed && !s.Stage.IsAsleep() {
			continue
		}
		start := s.Start.In(loc)
		if h := start.Hour(); h < 18 && h >= 4 {
			continue // daytime start, likely a nap
		}
		night := s.End.In(loc).Format("2006-01-02")
		if prev, ok := onsets[night]; !ok || start.Before(prev) {
			onsets[night] = start
		}
	}

	nights := make([]string, 0, len(onsets))
	for n := range onsets {
		nights = append(nights, n)
	}
	sort.Strings(nights)
	if windowDays > 0 && len(nights) > windowDays {
		nights = nights[len(nights)-windowDays:]
	}
	if len(nights) < 3 {
		return nil
	}

	minutes := make([]float64, 0, len(nights))
	for _, n := range nights {
		t := onsets[n]
		m := float64(t.Hour()*60 + t.Minute())
		if t.Hour() < 12 {
			m += 24 * 60
		}
		minutes = append(minutes, m)
	}

	var sum float64
	for _, m := range minutes {
		sum += m
	}
	mean := sum / float64(len(minutes))

	var sumSq float64
	for _, m := range minutes {
		d := m - mean
		sumSq += d * d
	}

	return &BedtimeConsistency{
		AverageMinutes: mean,
		StdDevMinutes:  math.Sqrt(sumSq / float64(len(minutes))),
		NightsSampled:  len(minutes),
	}
}
