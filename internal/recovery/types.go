package recovery

import "time"

// SleepStage classifies a recorded sleep interval
type SleepStage int

const (
	StageInBed SleepStage = iota
	StageAwake             // awake while in bed
	StageREM
	StageDeep
	StageCore
	StageUnspecified // asleep, stage unknown (older devices)
)

// String returns the canonical lowercase name used on the wire and in the DB
func (s SleepStage) String() string {
	switch s {
	case StageInBed:
		return "in_bed"
	case StageAwake:
		return "awake"
	case StageREM:
		return "rem"
	case StageDeep:
		return "deep"
	case StageCore:
		return "core"
	default:
		return "unspecified"
	}
}

// ParseSleepStage maps a wire/DB stage name back to a SleepStage.
// Unknown names fall back to StageUnspecified rather than failing.
func ParseSleepStage(name string) SleepStage {
	switch name {
	case "in_bed":
		return StageInBed
	case "awake":
		return StageAwake
	case "rem":
		return StageREM
	case "deep":
		return StageDeep
	case "core":
		return StageCore
	default:
		return StageUnspecified
	}
}

// IsAsleep reports whether the stage represents actual sleep
func (s SleepStage) IsAsleep() bool {
	switch s {
	case StageREM, StageDeep, StageCore, StageUnspecified:
		return true
	default:
		return false
	}
}

// TimedValue is a single scalar biomarker reading (HRV in ms, or heart rate in bpm)
type TimedValue struct {
	Timestamp time.Time
	Value     float64
}

// StageInterval is one recorded sleep interval tagged with its stage.
// Intervals from different recording sources may overlap.
type StageInterval struct {
	Start time.Time
	End   time.Time
	Stage SleepStage
}

// Valid reports whether the interval has positive duration.
// Intervals with End <= Start are rejected (dropped) by all analyzers.
func (si StageInterval) Valid() bool {
	return si.End.After(si.Start)
}

// Duration returns the interval length
func (si StageInterval) Duration() time.Duration {
	return si.End.Sub(si.Start)
}
