package healthapi

import "time"

// HRVSample is an HRV reading from the gateway
type HRVSample struct {
	RecordedAt time.Time `json:"recorded_at"`
	ValueMs    float64   `json:"value_ms"` // SDNN milliseconds
	Source     string    `json:"source"`   // recording device name
}

// RestingHRSample is a resting heart rate reading from the gateway
type RestingHRSample struct {
	RecordedAt time.Time `json:"recorded_at"`
	BPM        int       `json:"bpm"`
	Source     string    `json:"source"`
}

// SleepSample is a raw sleep stage interval from the gateway. The phone app
// forwards HealthKit category samples as-is, so intervals from a watch and
// a phone can overlap for the same night.
type SleepSample struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Stage  string    `json:"stage"` // in_bed, awake, rem, deep, core, unspecified
	Source string    `json:"source"`
}

// Profile is the authenticated user's gateway profile
type Profile struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// samplePage is the generic paginated response envelope
type samplePage[T any] struct {
	Samples []T  `json:"samples"`
	HasMore bool `json:"has_more"`
}
