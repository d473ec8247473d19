package store

import (
	"fmt"
	"time"
)

// timeLayout is how sample timestamps are stored, sortable as text
const timeLayout = time.RFC3339

// UpsertHRVReading stores an HRV reading, replacing any existing reading at
// the same timestamp
func (db *DB) UpsertHRVReading(r *HRVReading) error {
	_, err := db.Exec(`
		INSERT INTO hrv_readings (recorded_at, value_ms, source)
		VALUES (?, ?, ?)
		ON CONFLICT(recorded_at) DO UPDATE SET
			value_ms = excluded.value_ms,
			source = excluded.source
	`, r.RecordedAt.UTC().Format(timeLayout), r.ValueMs, r.Source)
	return err
}

// GetHRVReadings returns HRV readings recorded at or after since, oldest first
func (db *DB) GetHRVReadings(since time.Time) ([]HRVReading, error) {
	rows, err := db.Query(`
		SELECT recorded_at, value_ms, COALESCE(source, '')
		FROM hrv_readings
		WHERE recorded_at >= ?
		ORDER BY recorded_at ASC
	`, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []HRVReading
	for rows.Next() {
		var r HRVReading
		var recordedAt string
		if err := rows.Scan(&recordedAt, &r.ValueMs, &r.Source); err != nil {
			return nil, err
		}
		r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// LatestHRVReading returns the most recent HRV reading within [from, to),
// or nil if none exists
func (db *DB) LatestHRVReading(from, to time.Time) (*HRVReading, error) {
	row := db.QueryRow(`
		SELECT recorded_at, value_ms, COALESCE(source, '')
		FROM hrv_readings
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))

	var r HRVReading
	var recordedAt string
	if err := row.Scan(&recordedAt, &r.ValueMs, &r.Source); err != nil {
		return nil, err
	}
	var err error
	r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	return &r, nil
}

// UpsertRestingHRReading stores a resting heart rate reading
func (db *DB) UpsertRestingHRReading(r *RestingHRReading) error {
	_, err := db.Exec(`
		INSERT INTO resting_hr_readings (recorded_at, bpm, source)
		VALUES (?, ?, ?)
		ON CONFLICT(recorded_at) DO UPDATE SET
			bpm = excluded.bpm,
			source = excluded.source
	`, r.RecordedAt.UTC().Format(timeLayout), r.BPM, r.Source)
	return err
}

// GetRestingHRReadings returns resting HR readings recorded at or after
// since, oldest first
func (db *DB) GetRestingHRReadings(since time.Time) ([]RestingHRReading, error) {
	rows, err := db.Query(`
		SELECT recorded_at, bpm, COALESCE(source, '')
		FROM resting_hr_readings
		WHERE recorded_at >= ?
		ORDER BY recorded_at ASC
	`, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []RestingHRReading
	for rows.Next() {
		var r RestingHRReading
		var recordedAt string
		if err := rows.Scan(&recordedAt, &r.BPM, &r.Source); err != nil {
			return nil, err
		}
		r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// LatestRestingHRReading returns the most recent resting HR reading within
// [from, to), or nil if none exists
func (db *DB) LatestRestingHRReading(from, to time.Time) (*RestingHRReading, error) {
	row := db.QueryRow(`
		SELECT recorded_at, bpm, COALESCE(source, '')
		FROM resting_hr_readings
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))

	var r RestingHRReading
	var recordedAt string
	if err := row.Scan(&recordedAt, &r.BPM, &r.Source); err != nil {
		return nil, err
	}
	var err error
	r.RecordedAt, err = time.Parse(timeLayout, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	return &r, nil
}
