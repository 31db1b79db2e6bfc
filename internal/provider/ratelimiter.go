package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by one adapter's requests. Each
// provider has its own published limit, so each adapter owns its own bucket.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	interval time.Duration
	last     time.Time
}

// NewRateLimiter allows capacity calls per interval, with bursts up to
// capacity.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   capacity,
		capacity: capacity,
		interval: interval,
		last:     time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done. Returning ctx.Err()
// lets a timed-out provider attempt abort without consuming a token.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

func (r *RateLimiter) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refilled := int(now.Sub(r.last) / r.interval)
	if refilled > 0 {
		r.tokens += refilled
		if r.tokens > r.capacity {
			r.tokens = r.capacity
		}
		r.last = r.last.Add(time.Duration(refilled) * r.interval)
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
