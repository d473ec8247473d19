package recovery

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthDataProvider abstracts the health store the evaluator reads from.
// Implementations may hit a database or a remote API; the evaluator treats
// any error as "data missing" for that input and keeps going.
type HealthDataProvider interface {
	// TodaySnapshot returns today's point-in-time HRV and resting HR
	TodaySnapshot(ctx context.Context) (Snapshot, error)
	// HRVHistory returns HRV readings from the trailing window
	HRVHistory(ctx context.Context, days int) ([]TimedValue, error)
	// RestingHRHistory returns resting HR readings from the trailing window
	RestingHRHistory(ctx context.Context, days int) ([]TimedValue, error)
	// SleepNight returns the breakdown for the night ending on date, or nil
	SleepNight(ctx context.Context, date time.Time) (*SleepBreakdown, error)
	// SleepNightCount returns the number of distinct nights with any sleep
	// data in the trailing window
	SleepNightCount(ctx context.Context, days int) (int, error)
}

// EvaluateReadiness fetches the four independent inputs concurrently, joins,
// then runs the pure scorer. The fetches have no ordering dependency, so a
// failure or timeout on one becomes missing data for that input without
// aborting the others. Always returns an assessment.
func EvaluateReadiness(ctx context.Context, provider HealthDataProvider, scorer *Scorer, now time.Time) ReadinessAssessment {
	days := scorer.cfg.BaselineDays
	in := Inputs{Now: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if snap, err := provider.TodaySnapshot(gctx); err == nil {
			in.Today = snap
		}
		return nil
	})
	g.Go(func() error {
		if hist, err := provider.HRVHistory(gctx, days); err == nil {
			in.HRVHistory = hist
		}
		return nil
	})
	g.Go(func() error {
		if hist, err := provider.RestingHRHistory(gctx, days); err == nil {
			in.RHRHistory = hist
		}
		return nil
	})
	g.Go(func() error {
		if night, err := provider.SleepNight(gctx, now); err == nil {
			in.LastNight = night
		}
		if n, err := provider.SleepNightCount(gctx, days); err == nil {
			in.SleepNights = n
		}
		return nil
	})
	// Goroutines swallow fetch errors, so the only join outcome is done
	_ = g.Wait()

	return scorer.Score(in)
}
