package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"readiness/internal/recovery"
	"readiness/internal/store"
)

// StoreProvider serves recovery evaluation inputs from the local store.
// It implements recovery.HealthDataProvider.
type StoreProvider struct {
	store *store.DB
	loc   *time.Location
	now   func() time.Time // overridable for tests
}

// NewStoreProvider creates a provider reading from the given store.
// Times are interpreted in loc; pass time.Local for normal use.
func NewStoreProvider(db *store.DB, loc *time.Location) *StoreProvider {
	if loc == nil {
		loc = time.Local
	}
	return &StoreProvider{store: db, loc: loc, now: time.Now}
}

// TodaySnapshot returns the most recent HRV and resting HR readings
// recorded today. Either field may be nil when nothing was recorded.
func (p *StoreProvider) TodaySnapshot(ctx context.Context) (recovery.Snapshot, error) {
	now := p.now().In(p.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	var snap recovery.Snapshot

	hrv, err := p.store.LatestHRVReading(dayStart, dayEnd)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, err
	}
	if hrv != nil {
		snap.HRVMs = &hrv.ValueMs
	}

	rhr, err := p.store.LatestRestingHRReading(dayStart, dayEnd)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snap, err
	}
	if rhr != nil {
		snap.RestingHR = &rhr.BPM
	}

	return snap, nil
}

// HRVHistory returns HRV readings from the trailing window, oldest first
func (p *StoreProvider) HRVHistory(ctx context.Context, days int) ([]recovery.TimedValue, error) {
	readings, err := p.store.GetHRVReadings(p.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	values := make([]recovery.TimedValue, len(readings))
	for i, r := range readings {
		values[i] = recovery.TimedValue{Timestamp: r.RecordedAt, Value: r.ValueMs}
	}
	return values, nil
}

// RestingHRHistory returns resting HR readings from the trailing window,
// oldest first
func (p *StoreProvider) RestingHRHistory(ctx context.Context, days int) ([]recovery.TimedValue, error) {
	readings, err := p.store.GetRestingHRReadings(p.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	values := make([]recovery.TimedValue, len(readings))
	for i, r := range readings {
		values[i] = recovery.TimedValue{Timestamp: r.RecordedAt, Value: float64(r.BPM)}
	}
	return values, nil
}

// SleepNight analyzes the night ending on the given date. Returns nil
// when no sleep samples ended that day.
func (p *StoreProvider) SleepNight(ctx context.Context, date time.Time) (*recovery.SleepBreakdown, error) {
	local := date.In(p.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	// The store filters by end time, so intervals that started the
	// previous evening but ended this morning are included
	samples, err := p.store.GetSleepSamples(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return recovery.AnalyzeNight(toIntervals(samples), date, p.loc), nil
}

// SleepNightCount counts distinct nights with any sleep data in the
// trailing window
func (p *StoreProvider) SleepNightCount(ctx context.Context, days int) (int, error) {
	return p.store.CountSleepNights(p.now().AddDate(0, 0, -days))
}

// SleepSamples returns raw stage intervals whose end falls in the
// trailing window. Used for bedtime consistency, which needs the raw
// intervals rather than per-night breakdowns.
func (p *StoreProvider) SleepSamples(ctx context.Context, days int) ([]recovery.StageInterval, error) {
	now := p.now()
	samples, err := p.store.GetSleepSamples(now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}
	return toIntervals(samples), nil
}

// toIntervals converts stored sleep samples to stage intervals
func toIntervals(samples []store.SleepSample) []recovery.StageInterval {
	intervals := make([]recovery.StageInterval, len(samples))
	for i, s := range samples {
		intervals[i] = recovery.StageInterval{
			Start: s.Start,
			End:   s.End,
			Stage: recovery.ParseSleepStage(s.Stage),
		}
	}
	return intervals
}
