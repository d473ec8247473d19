package recovery

import (
	"fmt"
	"time"
)

// Category is the daily training-intensity recommendation
type Category int

const (
	CategoryGreat Category = iota
	CategoryGood
	CategoryModerate
	CategoryRest
)

func (c Category) String() string {
	switch c {
	case CategoryGreat:
		return "Great"
	case CategoryGood:
		return "Good"
	case CategoryModerate:
		return "Moderate"
	default:
		return "Rest"
	}
}

// ParseCategory maps a stored category name back to a Category.
// Unknown names resolve to CategoryModerate.
func ParseCategory(name string) Category {
	switch name {
	case "Great":
		return CategoryGreat
	case "Good":
		return CategoryGood
	case "Rest":
		return CategoryRest
	default:
		return CategoryModerate
	}
}

// Indicator is one evaluated biomarker's contribution to the verdict.
// An indicator is absent (never created) when its data is missing or its
// baseline unreliable; there is no neutral indicator.
type Indicator struct {
	Name     string
	Positive bool
	Detail   string
	Weight   float64
}

// BaselineProgress tracks how far along the initial baseline-building
// period is. CurrentDays is the minimum of the per-metric distinct-day
// counts, so every metric must have history before scoring begins.
type BaselineProgress struct {
	CurrentDays  int
	RequiredDays int
	HRVDays      int
	SleepDays    int
	RHRDays      int
}

// IsReady reports whether enough history exists to score
func (p BaselineProgress) IsReady() bool {
	return p.CurrentDays >= p.RequiredDays
}

// ReadinessAssessment is the full output of one evaluation. Constructed
// fresh on every call and never mutated.
type ReadinessAssessment struct {
	Category        Category
	Indicators      []Indicator
	Ratio           float64 // weighted share of positive indicators
	IsBaselineReady bool
	Progress        *BaselineProgress
}

// ScoringConfig is the immutable set of weights, thresholds and windows the
// scorer runs with. Constructed once at startup; there is no process-wide
// mutable configuration.
type ScoringConfig struct {
	// Indicator weights
	HRVWeight          float64
	SleepWeight        float64
	RHRWeight          float64
	TrainingLoadWeight float64 // reserved; no data source wires it yet

	// Windows
	BaselineDays  int // initial gate and progress counting
	HRVWindowDays int // HRV is noisy day to day, short window suffices
	RHRWindowDays int // resting HR moves slowly, wants more samples

	MinReliableSamples int

	// HRV thresholds, percent deviation from baseline. The above-baseline
	// tier mirrors HRVDropPct on the positive side.
	HRVDropPct float64 // below this the indicator turns negative
	HRVLowPct  float64 // below this the drop is significant

	// Sleep thresholds. Both must hold: duration alone is insufficient if
	// the night was fragmented.
	MinSleepHours      float64
	MinSleepEfficiency float64

	// Resting HR thresholds, bpm above baseline mean
	MaxRHRRise     float64
	ConcernRHRRise float64

	// Category bands over the positive-weight ratio, lower bound inclusive
	GreatRatio    float64
	GoodRatio     float64
	ModerateRatio float64
}

// DefaultScoringConfig returns the standard weights and thresholds
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		HRVWeight:          0.35,
		SleepWeight:        0.30,
		RHRWeight:          0.20,
		TrainingLoadWeight: 0.15,
		BaselineDays:       14,
		HRVWindowDays:      7,
		RHRWindowDays:      14,
		MinReliableSamples: DefaultReliableSamples,
		HRVDropPct:         -5,
		HRVLowPct:          -15,
		MinSleepHours:      6.5,
		MinSleepEfficiency: 80,
		MaxRHRRise:         3,
		ConcernRHRRise:     8,
		GreatRatio:         0.9,
		GoodRatio:          0.7,
		ModerateRatio:      0.4,
	}
}

// Snapshot is today's point-in-time readings. Either may be absent.
type Snapshot struct {
	HRVMs     *float64
	RestingHR *int
}

// Inputs is everything the scorer needs for one evaluation, fetched ahead
// of time so scoring itself is pure and synchronous
type Inputs struct {
	Today      Snapshot
	HRVHistory []TimedValue // trailing BaselineDays of HRV readings
	RHRHistory []TimedValue // trailing BaselineDays of resting HR readings
	LastNight  *SleepBreakdown
	// SleepNights is the count of distinct nights with any sleep data in
	// the baseline window
	SleepNights int
	Now         time.Time
}

// Scorer combines per-metric indicators into a categorical readiness
// verdict. It holds no state besides its immutable config.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer creates a scorer with the given config
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Config returns a copy of the scorer's configuration
func (s *Scorer) Config() ScoringConfig {
	return s.cfg
}

// Score evaluates readiness from a data snapshot. It is total: partial data
// degrades to omitted indicators or documented defaults, never an error.
//
// Two states only: while the baseline-building gate is closed the category
// is a fixed Good with no indicators; once 14 days of history exist on
// every metric the weighted indicators decide.
func (s *Scorer) Score(in Inputs) ReadinessAssessment {
	progress := s.progress(in)
	if !progress.IsReady() {
		// Policy: a fixed optimistic placeholder while building, not an
		// unknown state
		return ReadinessAssessment{
			Category:        CategoryGood,
			IsBaselineReady: false,
			Progress:        &progress,
		}
	}

	var indicators []Indicator
	if ind := s.hrvIndicator(in); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := s.sleepIndicator(in); ind != nil {
		indicators = append(indicators, *ind)
	}
	if ind := s.rhrIndicator(in); ind != nil {
		indicators = append(indicators, *ind)
	}
	// The training-load indicator (TrainingLoadWeight) has no data source
	// wired; the remaining weights renormalize over whatever is present

	ratio := positiveRatio(indicators)
	return ReadinessAssessment{
		Category:        s.categorize(ratio),
		Indicators:      indicators,
		Ratio:           ratio,
		IsBaselineReady: true,
		Progress:        &progress,
	}
}

// progress counts distinct calendar days of data per metric over the
// baseline window. Distinct days, not samples: multiple intraday readings
// must not inflate progress.
func (s *Scorer) progress(in Inputs) BaselineProgress {
	cutoff := in.Now.AddDate(0, 0, -s.cfg.BaselineDays)
	p := BaselineProgress{
		RequiredDays: s.cfg.BaselineDays,
		HRVDays:      countDistinctDays(in.HRVHistory, cutoff),
		RHRDays:      countDistinctDays(in.RHRHistory, cutoff),
		SleepDays:    in.SleepNights,
	}
	p.CurrentDays = min(p.HRVDays, min(p.SleepDays, p.RHRDays))
	return p
}

func (s *Scorer) hrvIndicator(in Inputs) *Indicator {
	if in.Today.HRVMs == nil {
		return nil
	}
	baseline := ComputeBaseline(
		trailingWindow(in.HRVHistory, in.Now, s.cfg.HRVWindowDays),
		s.cfg.MinReliableSamples,
	)
	if baseline == nil || !baseline.IsReliable() {
		return nil
	}

	dev := baseline.PercentDeviation(*in.Today.HRVMs)
	var detail string
	switch {
	case dev >= -s.cfg.HRVDropPct:
		detail = fmt.Sprintf("HRV %.0f ms, %.0f%% above baseline", *in.Today.HRVMs, dev)
	case dev >= s.cfg.HRVDropPct:
		detail = fmt.Sprintf("HRV %.0f ms, within normal range", *in.Today.HRVMs)
	case dev >= s.cfg.HRVLowPct:
		detail = fmt.Sprintf("HRV %.0f ms, %.0f%% below baseline", *in.Today.HRVMs, -dev)
	default:
		detail = fmt.Sprintf("HRV %.0f ms, significantly below baseline", *in.Today.HRVMs)
	}

	return &Indicator{
		Name:     "HRV",
		Positive: dev >= s.cfg.HRVDropPct,
		Detail:   detail,
		Weight:   s.cfg.HRVWeight,
	}
}

func (s *Scorer) sleepIndicator(in Inputs) *Indicator {
	night := in.LastNight
	if night == nil {
		return nil
	}

	eff := night.Efficiency()
	return &Indicator{
		Name:     "Sleep",
		Positive: night.TotalSleepHours >= s.cfg.MinSleepHours && eff >= s.cfg.MinSleepEfficiency,
		Detail:   fmt.Sprintf("%.1fh sleep at %.0f%% efficiency", night.TotalSleepHours, eff),
		Weight:   s.cfg.SleepWeight,
	}
}

func (s *Scorer) rhrIndicator(in Inputs) *Indicator {
	if in.Today.RestingHR == nil {
		return nil
	}
	baseline := ComputeBaseline(
		trailingWindow(in.RHRHistory, in.Now, s.cfg.RHRWindowDays),
		s.cfg.MinReliableSamples,
	)
	if baseline == nil || !baseline.IsReliable() {
		return nil
	}

	today := float64(*in.Today.RestingHR)
	delta := today - baseline.Mean
	var detail string
	switch {
	case delta <= -s.cfg.MaxRHRRise:
		detail = fmt.Sprintf("Resting HR %d bpm, %.0f below baseline", *in.Today.RestingHR, -delta)
	case delta <= s.cfg.MaxRHRRise:
		detail = fmt.Sprintf("Resting HR %d bpm, within normal range", *in.Today.RestingHR)
	case delta < s.cfg.ConcernRHRRise:
		detail = fmt.Sprintf("Resting HR %d bpm, %.0f above baseline", *in.Today.RestingHR, delta)
	default:
		detail = fmt.Sprintf("Resting HR %d bpm, significantly above baseline", *in.Today.RestingHR)
	}

	return &Indicator{
		Name:     "Resting HR",
		Positive: delta <= s.cfg.MaxRHRRise,
		Detail:   detail,
		Weight:   s.cfg.RHRWeight,
	}
}

// positiveRatio is the weight-share of positive indicators. With no
// indicators at all it defaults to 0.5, resolving to the middle of the
// category bands rather than an extreme.
func positiveRatio(indicators []Indicator) float64 {
	var positive, total float64
	for _, ind := range indicators {
		total += ind.Weight
		if ind.Positive {
			positive += ind.Weight
		}
	}
	if total == 0 {
		return 0.5
	}
	return positive / total
}

// categorize maps the ratio onto a band; lower bounds are inclusive
func (s *Scorer) categorize(ratio float64) Category {
	switch {
	case ratio >= s.cfg.GreatRatio:
		return CategoryGreat
	case ratio >= s.cfg.GoodRatio:
		return CategoryGood
	case ratio >= s.cfg.ModerateRatio:
		return CategoryModerate
	default:
		return CategoryRest
	}
}

// trailingWindow filters readings to the last `days` days before now
func trailingWindow(readings []TimedValue, now time.Time, days int) []TimedValue {
	cutoff := now.AddDate(0, 0, -days)
	out := make([]TimedValue, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) && !r.Timestamp.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// countDistinctDays counts distinct calendar days among readings at or
// after cutoff
func countDistinctDays(readings []TimedValue, cutoff time.Time) int {
	days := make(map[string]struct{})
	for _, r := range readings {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		days[r.Timestamp.Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}
