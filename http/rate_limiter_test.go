package http

import (
	"testing"
	"time"
)

func newManualLimiter(capacity int, window time.Duration) (*RateLimiter, *time.Time) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(capacity, window)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_AllowsUpToCapacity(t *testing.T) {

	rl, _ := newManualLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("a") {
		t.Errorf("fourth request should be rejected")
	}
	if !rl.Allow("b") {
		t.Errorf("other keys have their own bucket")
	}
}

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {

	rl, now := newManualLimiter(1, time.Minute)
	defer rl.Stop()

	rl.Allow("a")
	if rl.Allow("a") {
		t.Fatalf("expected bucket to be empty")
	}

	*now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Errorf("expected refill after window")
	}
}

func TestRateLimiter_EvictsIdleBuckets(t *testing.T) {

	rl, now := newManualLimiter(1, time.Minute)
	defer rl.Stop()

	rl.Allow("a")
	*now = now.Add(2 * time.Hour)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.buckets) != 0 {
		t.Errorf("expected idle bucket to be evicted")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {

	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}
