package recovery

import (
	"math"
	"time"
)

// SleepBreakdown is one night's sleep, decomposed by stage. Hours are
// overlap-free per stage. Core absorbs intervals recorded without a
// specific stage.
type SleepBreakdown struct {
	Date            time.Time // the morning the session ended on
	TimeInBedHours  float64
	TotalSleepHours float64
	REMHours        float64
	DeepHours       float64
	CoreHours       float64
	AwakeHours      float64
}

// Efficiency returns the percentage of time in bed spent asleep
func (b SleepBreakdown) Efficiency() float64 {
	if b.TimeInBedHours <= 0 {
		return 0
	}
	return b.TotalSleepHours / b.TimeInBedHours * 100
}

// QualityScore rewards restorative (REM + deep) sleep on a 0-100 scale.
// 40% combined REM+deep maps to a perfect score, the commonly cited
// threshold for high-quality sleep; the clamp bounds the ratio above that.
func (b SleepBreakdown) QualityScore() float64 {
	if b.TotalSleepHours <= 0 {
		return 0
	}
	return math.Min(100, (b.REMHours+b.DeepHours)/b.TotalSleepHours*250)
}

// AnalyzeNight computes the sleep breakdown for one calendar date from raw
// stage intervals. A sample belongs to date D when it ends within D's local
// day, which anchors "sleep for D" to the session ending on D's morning
// rather than the one starting the prior evening. Returns nil when no
// samples end within that window.
func AnalyzeNight(samples []StageInterval, forDate time.Time, loc *time.Location) *SleepBreakdown {
	if loc == nil {
		loc = time.Local
	}
	dayStart := startOfDay(forDate, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	var night []StageInterval
	for _, s := range samples {
		if !s.Valid() {
			continue
		}
		end := s.End.In(loc)
		if !end.Before(dayStart) && end.Before(dayEnd) {
			night = append(night, s)
		}
	}
	if len(night) == 0 {
		return nil
	}

	// Partition by stage and merge each partition independently so a stage
	// reported by two sources is counted once
	var inBed, awake, rem, deep, core []StageInterval
	for _, s := range night {
		switch s.Stage {
		case StageInBed:
			inBed = append(inBed, s)
		case StageAwake:
			awake = append(awake, s)
		case StageREM:
			rem = append(rem, s)
		case StageDeep:
			deep = append(deep, s)
		default:
			// Core, plus unspecified-asleep
			core = append(core, s)
		}
	}

	b := &SleepBreakdown{
		Date:       dayStart,
		REMHours:   MergeDuration(rem).Hours(),
		DeepHours:  MergeDuration(deep).Hours(),
		CoreHours:  MergeDuration(core).Hours(),
		AwakeHours: MergeDuration(awake).Hours(),
	}
	b.TotalSleepHours = b.REMHours + b.DeepHours + b.CoreHours

	if len(inBed) > 0 {
		b.TimeInBedHours = MergeDuration(inBed).Hours()
	} else if start, end, ok := coveredSpan(night); ok {
		// No explicit in-bed samples: infer the session span
		b.TimeInBedHours = end.Sub(start).Hours()
	}

	// Time in bed can never be less than time spent asleep or awake in bed
	if minInBed := b.TotalSleepHours + b.AwakeHours; b.TimeInBedHours < minInBed {
		b.TimeInBedHours = minInBed
	}

	return b
}

// startOfDay truncates t to local midnight
func startOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
