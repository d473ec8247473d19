package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := migrate(sqlDB); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &DB{sqlDB}
}

func TestHRVReadings(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2025, 3, 15, 7, 30, 0, 0, time.UTC)

	t.Run("upsert and fetch by window", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			r := &HRVReading{
				RecordedAt: base.AddDate(0, 0, -i),
				ValueMs:    50 - float64(i),
				Source:     "watch",
			}
			if err := db.UpsertHRVReading(r); err != nil {
				t.Fatalf("UpsertHRVReading() error = %v", err)
			}
		}

		got, err := db.GetHRVReadings(base.AddDate(0, 0, -2))
		if err != nil {
			t.Fatalf("GetHRVReadings() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d readings, want 3", len(got))
		}
		// Oldest first
		if !got[0].RecordedAt.Before(got[1].RecordedAt) {
			t.Error("readings not in ascending order")
		}
		if got[2].ValueMs != 50 {
			t.Errorf("newest ValueMs = %v, want 50", got[2].ValueMs)
		}
	})

	t.Run("upsert replaces at the same timestamp", func(t *testing.T) {
		r := &HRVReading{RecordedAt: base, ValueMs: 62, Source: "ring"}
		if err := db.UpsertHRVReading(r); err != nil {
			t.Fatalf("UpsertHRVReading() error = %v", err)
		}

		got, err := db.LatestHRVReading(base.Add(-time.Hour), base.Add(time.Hour))
		if err != nil {
			t.Fatalf("LatestHRVReading() error = %v", err)
		}
		if got.ValueMs != 62 {
			t.Errorf("ValueMs = %v, want 62 after upsert", got.ValueMs)
		}
		if got.Source != "ring" {
			t.Errorf("Source = %v, want ring", got.Source)
		}
	})

	t.Run("latest in empty window", func(t *testing.T) {
		_, err := db.LatestHRVReading(base.AddDate(0, 0, 10), base.AddDate(0, 0, 11))
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("error = %v, want sql.ErrNoRows", err)
		}
	})
}

func TestRestingHRReadings(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2025, 3, 15, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := &RestingHRReading{
			RecordedAt: base.AddDate(0, 0, -i),
			BPM:        55 + i,
			Source:     "watch",
		}
		if err := db.UpsertRestingHRReading(r); err != nil {
			t.Fatalf("UpsertRestingHRReading() error = %v", err)
		}
	}

	got, err := db.GetRestingHRReadings(base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("GetRestingHRReadings() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d readings, want 3", len(got))
	}

	latest, err := db.LatestRestingHRReading(base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("LatestRestingHRReading() error = %v", err)
	}
	if latest.BPM != 55 {
		t.Errorf("BPM = %v, want 55", latest.BPM)
	}
}

func TestAuthRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Errorf("GetAuth() on empty db error = %v, want ErrNoAuth", err)
	}

	expires := time.Now().Add(6 * time.Hour).Truncate(time.Second)
	auth := &Auth{
		UserID:       42,
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    expires,
	}
	if err := db.SaveAuth(auth); err != nil {
		t.Fatalf("SaveAuth() error = %v", err)
	}

	got, err := db.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if got.UserID != 42 {
		t.Errorf("UserID = %v, want 42", got.UserID)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, expires)
	}

	if err := db.UpdateTokens("access2", "refresh2", expires.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateTokens() error = %v", err)
	}
	got, err = db.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if got.AccessToken != "access2" {
		t.Errorf("AccessToken = %v, want access2", got.AccessToken)
	}
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	val, err := db.GetSyncState(SyncKeyHRV)
	if err != nil {
		t.Fatalf("GetSyncState() error = %v", err)
	}
	if val != "" {
		t.Errorf("value = %q, want empty for missing key", val)
	}

	if err := db.SetSyncState(SyncKeyHRV, "2025-03-15T07:00:00Z"); err != nil {
		t.Fatalf("SetSyncState() error = %v", err)
	}
	if err := db.SetSyncState(SyncKeyHRV, "2025-03-16T07:00:00Z"); err != nil {
		t.Fatalf("SetSyncState() overwrite error = %v", err)
	}

	val, err = db.GetSyncState(SyncKeyHRV)
	if err != nil {
		t.Fatalf("GetSyncState() error = %v", err)
	}
	if val != "2025-03-16T07:00:00Z" {
		t.Errorf("value = %q, want the overwritten timestamp", val)
	}
}
