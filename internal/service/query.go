package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"readiness/internal/recovery"
	"readiness/internal/store"
)

// bedtimeWindowDays is how far back bedtime consistency looks
const bedtimeWindowDays = 14

// assessmentHistoryLimit caps the recent verdicts shown on the dashboard
const assessmentHistoryLimit = 7

// QueryService provides read access to evaluated readiness data
type QueryService struct {
	store    *store.DB
	scorer   *recovery.Scorer
	provider *StoreProvider
	loc      *time.Location
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, scorer *recovery.Scorer, loc *time.Location) *QueryService {
	if loc == nil {
		loc = time.Local
	}
	return &QueryService{
		store:    db,
		scorer:   scorer,
		provider: NewStoreProvider(db, loc),
		loc:      loc,
	}
}

// DashboardData contains everything the dashboard screen displays
type DashboardData struct {
	Assessment recovery.ReadinessAssessment
	LastNight  *recovery.SleepBreakdown
	Bedtime    *recovery.BedtimeConsistency
	TodayHRV   *float64
	TodayRHR   *int
	History    []store.Assessment
}

// EvaluateToday runs a readiness evaluation against the store and
// persists the verdict for trend history
func (q *QueryService) EvaluateToday(ctx context.Context) (recovery.ReadinessAssessment, error) {
	now := q.provider.now().In(q.loc)
	assessment := recovery.EvaluateReadiness(ctx, q.provider, q.scorer, now)

	record := &store.Assessment{
		Day:            now.Format("2006-01-02"),
		Category:       assessment.Category.String(),
		Ratio:          assessment.Ratio,
		IndicatorCount: len(assessment.Indicators),
		BaselineReady:  assessment.IsBaselineReady,
	}
	if err := q.store.SaveAssessment(record); err != nil {
		// The verdict is still valid; history just misses a day
		log.Warn().Err(err).Str("day", record.Day).Msg("saving assessment")
	}

	return assessment, nil
}

// Dashboard assembles the data for the dashboard screen
func (q *QueryService) Dashboard(ctx context.Context) (*DashboardData, error) {
	assessment, err := q.EvaluateToday(ctx)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{Assessment: assessment}

	snap, err := q.provider.TodaySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	data.TodayHRV = snap.HRVMs
	data.TodayRHR = snap.RestingHR

	lastNight, err := q.provider.SleepNight(ctx, q.provider.now().In(q.loc))
	if err != nil {
		return nil, err
	}
	data.LastNight = lastNight

	intervals, err := q.provider.SleepSamples(ctx, bedtimeWindowDays)
	if err != nil {
		return nil, err
	}
	data.Bedtime = recovery.ComputeBedtimeConsistency(intervals, bedtimeWindowDays, q.loc)

	history, err := q.store.GetRecentAssessments(assessmentHistoryLimit)
	if err != nil {
		return nil, err
	}
	data.History = history

	return data, nil
}

// TrendSeries is one metric's daily readings, oldest first
type TrendSeries struct {
	Days   []string // "01-02" labels matching Values
	Values []float64
}

// TrendData holds daily series for the trends screen. Each series
// carries its own day labels; the metrics are sampled independently and
// may cover different days.
type TrendData struct {
	HRV       TrendSeries
	RestingHR TrendSeries
}

// Trends builds daily HRV and resting HR series over the trailing
// window. Days without a reading are skipped rather than zero-filled
// so the charts don't dip to the floor.
func (q *QueryService) Trends(ctx context.Context, days int) (*TrendData, error) {
	hrv, err := q.provider.HRVHistory(ctx, days)
	if err != nil {
		return nil, err
	}
	rhr, err := q.provider.RestingHRHistory(ctx, days)
	if err != nil {
		return nil, err
	}

	return &TrendData{
		HRV:       toSeries(lastPerDay(hrv, q.loc)),
		RestingHR: toSeries(lastPerDay(rhr, q.loc)),
	}, nil
}

// SleepNights returns per-night breakdowns for the trailing window,
// newest first. Nights without data are omitted.
func (q *QueryService) SleepNights(ctx context.Context, days int) ([]recovery.SleepBreakdown, error) {
	var nights []recovery.SleepBreakdown
	today := q.provider.now().In(q.loc)

	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i)
		night, err := q.provider.SleepNight(ctx, date)
		if err != nil {
			return nil, err
		}
		if night != nil {
			nights = append(nights, *night)
		}
	}

	return nights, nil
}

// dayValue is one day's representative reading
type dayValue struct {
	day   time.Time
	value float64
}

func toSeries(daily []dayValue) TrendSeries {
	var s TrendSeries
	for _, dv := range daily {
		s.Days = append(s.Days, dv.day.Format("01-02"))
		s.Values = append(s.Values, dv.value)
	}
	return s
}

// lastPerDay collapses readings to the latest reading per local calendar
// day, preserving chronological order
func lastPerDay(readings []recovery.TimedValue, loc *time.Location) []dayValue {
	var out []dayValue
	for _, r := range readings {
		local := r.Timestamp.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		if len(out) > 0 && out[len(out)-1].day.Equal(day) {
			out[len(out)-1].value = r.Value
			continue
		}
		out = append(out, dayValue{day: day, value: r.Value})
	}
	return out
}
