package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"readiness/internal/healthapi"
	"readiness/internal/store"
)

// defaultLookback bounds the first sync when no sync state exists yet
const defaultLookback = 90 * 24 * time.Hour

// syncPageSize is the page size requested from the gateway
const syncPageSize = 200

// SyncService orchestrates pulling health samples from the gateway
// into the local store
type SyncService struct {
	client *healthapi.Client
	store  *store.DB
}

// NewSyncService creates a new sync service
func NewSyncService(client *healthapi.Client, store *store.DB) *SyncService {
	return &SyncService{
		client: client,
		store:  store,
	}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase   string // "hrv", "resting_hr", "sleep"
	Fetched int
	Error   error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	HRVFetched       int
	RestingHRFetched int
	SleepFetched     int
	Errors           []error
}

// SyncAll performs an incremental sync of all three sample kinds.
// Each kind resumes from its own bookmark, so a partial failure on one
// kind doesn't lose progress on the others.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	result := &SyncResult{}

	if err := s.syncHRV(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing hrv: %w", err)
	}

	if err := s.syncRestingHR(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing resting hr: %w", err)
	}

	if err := s.syncSleep(ctx, progress, result); err != nil {
		return result, fmt.Errorf("syncing sleep: %w", err)
	}

	log.Info().
		Int("hrv", result.HRVFetched).
		Int("resting_hr", result.RestingHRFetched).
		Int("sleep", result.SleepFetched).
		Int("errors", len(result.Errors)).
		Msg("sync complete")

	return result, nil
}

// sinceFor reads the bookmark for a sample kind, falling back to the
// default lookback for a first sync
func (s *SyncService) sinceFor(key string) time.Time {
	lastSyncStr, _ := s.store.GetSyncState(key)
	if lastSyncStr != "" {
		if since, err := time.Parse(time.RFC3339, lastSyncStr); err == nil {
			return since
		}
	}
	return time.Now().Add(-defaultLookback)
}

func (s *SyncService) syncHRV(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	since := s.sinceFor(store.SyncKeyHRV)

	if progress != nil {
		progress <- SyncProgress{Phase: "hrv"}
	}

	page := 1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, hasMore, err := s.client.GetHRVSamples(ctx, since, page, syncPageSize)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		for _, sample := range samples {
			r := &store.HRVReading{
				RecordedAt: sample.RecordedAt,
				ValueMs:    sample.ValueMs,
				Source:     sample.Source,
			}
			if err := s.store.UpsertHRVReading(r); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing hrv reading at %s: %w", sample.RecordedAt, err))
				continue
			}
			result.HRVFetched++
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "hrv", Fetched: result.HRVFetched}
		}

		if !hasMore {
			break
		}
		page++
	}

	s.store.SetSyncState(store.SyncKeyHRV, time.Now().Format(time.RFC3339))
	log.Debug().Int("fetched", result.HRVFetched).Time("since", since).Msg("hrv sync done")

	return nil
}

func (s *SyncService) syncRestingHR(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	since := s.sinceFor(store.SyncKeyRestingHR)

	if progress != nil {
		progress <- SyncProgress{Phase: "resting_hr"}
	}

	page := 1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, hasMore, err := s.client.GetRestingHRSamples(ctx, since, page, syncPageSize)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		for _, sample := range samples {
			r := &store.RestingHRReading{
				RecordedAt: sample.RecordedAt,
				BPM:        sample.BPM,
				Source:     sample.Source,
			}
			if err := s.store.UpsertRestingHRReading(r); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing resting hr reading at %s: %w", sample.RecordedAt, err))
				continue
			}
			result.RestingHRFetched++
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "resting_hr", Fetched: result.RestingHRFetched}
		}

		if !hasMore {
			break
		}
		page++
	}

	s.store.SetSyncState(store.SyncKeyRestingHR, time.Now().Format(time.RFC3339))
	log.Debug().Int("fetched", result.RestingHRFetched).Time("since", since).Msg("resting hr sync done")

	return nil
}

func (s *SyncService) syncSleep(ctx context.Context, progress chan<- SyncProgress, result *SyncResult) error {
	since := s.sinceFor(store.SyncKeySleep)

	if progress != nil {
		progress <- SyncProgress{Phase: "sleep"}
	}

	page := 1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, hasMore, err := s.client.GetSleepSamples(ctx, since, page, syncPageSize)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}

		for _, sample := range samples {
			ss := &store.SleepSample{
				Start:  sample.Start,
				End:    sample.End,
				Stage:  sample.Stage,
				Source: sample.Source,
			}
			if err := s.store.UpsertSleepSample(ss); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("storing sleep sample ending %s: %w", sample.End, err))
				continue
			}
			result.SleepFetched++
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "sleep", Fetched: result.SleepFetched}
		}

		if !hasMore {
			break
		}
		page++
	}

	s.store.SetSyncState(store.SyncKeySleep, time.Now().Format(time.RFC3339))
	log.Debug().Int("fetched", result.SleepFetched).Time("since", since).Msg("sleep sync done")

	return nil
}

// RateLimitRemaining returns the requests left in the current window
func (s *SyncService) RateLimitRemaining() int {
	return s.client.RateLimitRemaining()
}
