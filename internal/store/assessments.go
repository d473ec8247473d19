package store

import "time"

// SaveAssessment stores or replaces the readiness verdict for a day
func (db *DB) SaveAssessment(a *Assessment) error {
	_, err := db.Exec(`
		INSERT INTO assessments (day, category, ratio, indicator_count, baseline_ready, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			category = excluded.category,
			ratio = excluded.ratio,
			indicator_count = excluded.indicator_count,
			baseline_ready = excluded.baseline_ready,
			updated_at = CURRENT_TIMESTAMP
	`, a.Day, a.Category, a.Ratio, a.IndicatorCount, boolToInt(a.BaselineReady))
	return err
}

// GetRecentAssessments returns up to limit stored verdicts, newest first
func (db *DB) GetRecentAssessments(limit int) ([]Assessment, error) {
	rows, err := db.Query(`
		SELECT day, category, ratio, indicator_count, baseline_ready, created_at
		FROM assessments
		ORDER BY day DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []Assessment
	for rows.Next() {
		var a Assessment
		var ready int
		var createdAt string
		if err := rows.Scan(&a.Day, &a.Category, &a.Ratio, &a.IndicatorCount, &ready, &createdAt); err != nil {
			return nil, err
		}
		a.BaselineReady = ready != 0
		// created_at is SQLite's CURRENT_TIMESTAMP format
		a.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
