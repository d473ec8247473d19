package store

import "time"

// Auth represents OAuth tokens for health gateway access
type Auth struct {
	UserID       int64     `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// HRVReading is a single heart-rate-variability reading
type HRVReading struct {
	RecordedAt time.Time `db:"recorded_at"`
	ValueMs    float64   `db:"value_ms"` // SDNN milliseconds
	Source     string    `db:"source"`   // recording device/app
}

// RestingHRReading is a single resting heart rate reading
type RestingHRReading struct {
	RecordedAt time.Time `db:"recorded_at"`
	BPM        int       `db:"bpm"`
	Source     string    `db:"source"`
}

// SleepSample is a raw sleep stage interval as reported by a source.
// Samples from different sources may overlap.
type SleepSample struct {
	Start  time.Time `db:"start_time"`
	End    time.Time `db:"end_time"`
	Stage  string    `db:"stage"` // in_bed, awake, rem, deep, core, unspecified
	Source string    `db:"source"`
}

// Assessment is a persisted daily readiness verdict
type Assessment struct {
	Day            string    `db:"day"` // YYYY-MM-DD
	Category       string    `db:"category"`
	Ratio          float64   `db:"ratio"`
	IndicatorCount int       `db:"indicator_count"`
	BaselineReady  bool      `db:"baseline_ready"`
	CreatedAt      time.Time `db:"created_at"`
}
