package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	// Exhaust key1
	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}

	// key2 should still work
	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
	if rl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rl.Len())
	}
}

func TestKeyedRateLimiter_Refill(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("k") || rl.Allow("k") {
		t.Fatal("expected exactly one request within the burst")
	}

	now = now.Add(time.Second)
	if !rl.Allow("k") {
		t.Error("token should refill after one second")
	}
}

func TestKeyedRateLimiter_Evict(t *testing.T) {
	rl := New(1, 1, WithIdleTTL(time.Minute))
	defer rl.Stop()

	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(30 * time.Second)
	rl.Allow("recent")
	now = now.Add(45 * time.Second)

	if removed := rl.Evict(); removed != 1 {
		t.Errorf("Evict() removed %d, want 1", removed)
	}
	if rl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", rl.Len())
	}

	// An evicted key starts with a full burst again.
	if !rl.Allow("old") {
		t.Error("evicted key should be allowed")
	}
}

func TestPerMinute(t *testing.T) {
	rl := PerMinute(60, 2)
	defer rl.Stop()

	if rl.limit != 1 {
		t.Errorf("limit = %v, want 1 rps", rl.limit)
	}
}

func TestKeyedRateLimiter_Concurrent(t *testing.T) {
	rl := New(0.001, 10)
	defer rl.Stop()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		passed int
	)
	for range 50 {
		wg.Go(func() {
			if rl.Allow("shared") {
				mu.Lock()
				passed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if passed != 10 {
		t.Errorf("passed %d, want 10", passed)
	}
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
}
