package store

import (
	"fmt"
	"time"
)

// UpsertSleepSample stores one raw sleep stage interval. The natural key
// (start, end, stage, source) makes re-syncing the same interval a no-op.
func (db *DB) UpsertSleepSample(s *SleepSample) error {
	_, err := db.Exec(`
		INSERT INTO sleep_samples (start_time, end_time, stage, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(start_time, end_time, stage, source) DO NOTHING
	`, s.Start.UTC().Format(timeLayout), s.End.UTC().Format(timeLayout), s.Stage, s.Source)
	return err
}

// GetSleepSamples returns sleep samples whose end falls in [from, to),
// ordered by start time
func (db *DB) GetSleepSamples(from, to time.Time) ([]SleepSample, error) {
	rows, err := db.Query(`
		SELECT start_time, end_time, stage, source
		FROM sleep_samples
		WHERE end_time >= ? AND end_time < ?
		ORDER BY start_time ASC
	`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []SleepSample
	for rows.Next() {
		var s SleepSample
		var start, end string
		if err := rows.Scan(&start, &end, &s.Stage, &s.Source); err != nil {
			return nil, err
		}
		if s.Start, err = time.Parse(timeLayout, start); err != nil {
			return nil, fmt.Errorf("parsing start_time %q: %w", start, err)
		}
		if s.End, err = time.Parse(timeLayout, end); err != nil {
			return nil, fmt.Errorf("parsing end_time %q: %w", end, err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// CountSleepNights counts distinct calendar dates (of sample end, UTC) with
// any sleep data at or after since
func (db *DB) CountSleepNights(since time.Time) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(DISTINCT date(end_time))
		FROM sleep_samples
		WHERE end_time >= ?
	`, since.UTC().Format(timeLayout)).Scan(&count)
	return count, err
}
