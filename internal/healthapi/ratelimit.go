package healthapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The gateway allows 300 requests per 15 minutes per token and advertises
// usage in response headers.

// RateLimiter paces requests against the gateway's per-token limit
type RateLimiter struct {
	mu sync.Mutex

	limit    int
	usage    int
	resetsAt time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with the gateway's default limit
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limit:       300,
		resetsAt:    time.Now().Add(15 * time.Minute),
		minInterval: 100 * time.Millisecond,
	}
}

// Wait blocks until a request can be made without exceeding the limit
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.resetsAt) {
		r.usage = 0
		r.resetsAt = now.Add(15 * time.Minute)
	}

	if r.usage >= r.limit {
		waitTime := time.Until(r.resetsAt)
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
		r.usage = 0
		r.resetsAt = time.Now().Add(15 * time.Minute)
	}

	// Enforce minimum spacing between requests
	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		waitTime := r.minInterval - elapsed
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		}
		r.mu.Lock()
	}

	r.usage++
	r.lastRequest = time.Now()
	return nil
}

// UpdateFromHeaders updates limiter state from gateway response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if usage := h.Get("X-RateLimit-Usage"); usage != "" {
		if n, err := strconv.Atoi(usage); err == nil {
			r.usage = n
		}
	}
	if limit := h.Get("X-RateLimit-Limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			r.limit = n
		}
	}
}

// Remaining returns how many requests are left in the current window
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit - r.usage
}
