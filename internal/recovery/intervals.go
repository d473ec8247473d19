package recovery

import (
	"sort"
	"time"
)

// span is a merged, non-overlapping time range
type span struct {
	start time.Time
	end   time.Time
}

// MergeDuration returns the total duration covered by the union of the given
// intervals. Overlapping or touching intervals are counted once, so two
// recording sources reporting the same sleep session cannot double-count it.
// Invalid intervals (End <= Start) are dropped. O(n log n).
func MergeDuration(intervals []StageInterval) time.Duration {
	var total time.Duration
	for _, s := range mergeSpans(intervals) {
		total += s.end.Sub(s.start)
	}
	return total
}

// coveredSpan returns the earliest start and latest end across valid
// intervals, and false if there are none.
func coveredSpan(intervals []StageInterval) (time.Time, time.Time, bool) {
	var start, end time.Time
	found := false
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		if !found || iv.Start.Before(start) {
			start = iv.Start
		}
		if !found || iv.End.After(end) {
			end = iv.End
		}
		found = true
	}
	return start, end, found
}

// mergeSpans collapses intervals into a sorted set of non-overlapping spans
func mergeSpans(intervals []StageInterval) []span {
	valid := make([]StageInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Valid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	spans := make([]span, 0, len(valid))
	cur := span{start: valid[0].Start, end: valid[0].End}
	for _, iv := range valid[1:] {
		// Overlap or touch extends the current span
		if !iv.Start.After(cur.end) {
			if iv.End.After(cur.end) {
				cur.end = iv.End
			}
			continue
		}
		spans = append(spans, cur)
		cur = span{start: iv.Start, end: iv.End}
	}
	return append(spans, cur)
}
