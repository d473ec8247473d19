package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication against the health gateway (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// HRV readings (SDNN milliseconds, typically one per morning)
		`CREATE TABLE IF NOT EXISTS hrv_readings (
			recorded_at TEXT PRIMARY KEY,
			value_ms REAL NOT NULL,
			source TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_hrv_recorded ON hrv_readings(recorded_at)`,

		// Resting heart rate readings (bpm)
		`CREATE TABLE IF NOT EXISTS resting_hr_readings (
			recorded_at TEXT PRIMARY KEY,
			bpm INTEGER NOT NULL,
			source TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_rhr_recorded ON resting_hr_readings(recorded_at)`,

		// Raw sleep stage intervals; multiple sources may report
		// overlapping intervals for the same night
		`CREATE TABLE IF NOT EXISTS sleep_samples (
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			stage TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (start_time, end_time, stage, source)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sleep_end ON sleep_samples(end_time)`,

		// One readiness verdict per day, kept for trend display
		`CREATE TABLE IF NOT EXISTS assessments (
			day TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			ratio REAL NOT NULL,
			indicator_count INTEGER NOT NULL,
			baseline_ready INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sync bookkeeping (key-value)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
