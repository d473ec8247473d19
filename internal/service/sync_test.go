package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"readiness/internal/healthapi"
	"readiness/internal/store"
)

// newFakeGateway serves canned sample pages for each endpoint
func newFakeGateway(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/samples/hrv", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "1" {
			fmt.Fprint(w, `{"samples":[
				{"recorded_at":"2025-03-14T07:30:00Z","value_ms":48.5,"source":"watch"},
				{"recorded_at":"2025-03-15T07:30:00Z","value_ms":51.0,"source":"watch"}
			],"has_more":true}`)
			return
		}
		fmt.Fprint(w, `{"samples":[
			{"recorded_at":"2025-03-16T07:30:00Z","value_ms":49.5,"source":"watch"}
		],"has_more":false}`)
	})
	mux.HandleFunc("/v1/samples/resting-hr", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"samples":[
			{"recorded_at":"2025-03-15T07:00:00Z","bpm":54,"source":"watch"}
		],"has_more":false}`)
	})
	mux.HandleFunc("/v1/samples/sleep", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"samples":[
			{"start":"2025-03-14T23:00:00Z","end":"2025-03-15T07:00:00Z","stage":"in_bed","source":"watch"},
			{"start":"2025-03-14T23:15:00Z","end":"2025-03-15T03:00:00Z","stage":"core","source":"watch"},
			{"start":"2025-03-15T03:00:00Z","end":"2025-03-15T05:00:00Z","stage":"deep","source":"watch"}
		],"has_more":false}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestSyncService(t *testing.T, db *store.DB) *SyncService {
	t.Helper()
	gateway := newFakeGateway(t)
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	client := healthapi.NewClient(tokenSource, gateway.URL)
	return NewSyncService(client, db)
}

func TestSyncAll(t *testing.T) {
	db := openTestDB(t)
	svc := newTestSyncService(t, db)

	result, err := svc.SyncAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("SyncAll() error: %v", err)
	}

	if result.HRVFetched != 3 {
		t.Errorf("HRVFetched = %d, want 3 (across two pages)", result.HRVFetched)
	}
	if result.RestingHRFetched != 1 {
		t.Errorf("RestingHRFetched = %d, want 1", result.RestingHRFetched)
	}
	if result.SleepFetched != 3 {
		t.Errorf("SleepFetched = %d, want 3", result.SleepFetched)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	// Samples landed in the store
	hrv, err := db.GetHRVReadings(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetHRVReadings() error: %v", err)
	}
	if len(hrv) != 3 {
		t.Errorf("stored HRV readings = %d, want 3", len(hrv))
	}

	sleep, err := db.GetSleepSamples(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("GetSleepSamples() error: %v", err)
	}
	if len(sleep) != 3 {
		t.Errorf("stored sleep samples = %d, want 3", len(sleep))
	}

	// Bookmarks recorded for every kind
	for _, key := range []string{store.SyncKeyHRV, store.SyncKeyRestingHR, store.SyncKeySleep} {
		value, err := db.GetSyncState(key)
		if err != nil {
			t.Fatalf("GetSyncState(%q) error: %v", key, err)
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			t.Errorf("sync state %q = %q, not a timestamp", key, value)
		}
	}
}

func TestSyncAllIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newTestSyncService(t, db)

	if _, err := svc.SyncAll(context.Background(), nil); err != nil {
		t.Fatalf("first SyncAll() error: %v", err)
	}
	if _, err := svc.SyncAll(context.Background(), nil); err != nil {
		t.Fatalf("second SyncAll() error: %v", err)
	}

	hrv, err := db.GetHRVReadings(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetHRVReadings() error: %v", err)
	}
	if len(hrv) != 3 {
		t.Errorf("stored HRV readings after re-sync = %d, want 3", len(hrv))
	}
}

func TestSyncProgressReportsPhases(t *testing.T) {
	db := openTestDB(t)
	svc := newTestSyncService(t, db)

	progress := make(chan SyncProgress, 32)
	if _, err := svc.SyncAll(context.Background(), progress); err != nil {
		t.Fatalf("SyncAll() error: %v", err)
	}

	phases := map[string]bool{}
	for p := range progress {
		phases[p.Phase] = true
	}
	for _, want := range []string{"hrv", "resting_hr", "sleep"} {
		if !phases[want] {
			t.Errorf("missing progress phase %q", want)
		}
	}
}
