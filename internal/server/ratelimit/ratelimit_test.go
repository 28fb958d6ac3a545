package ratelimit

import (
	"context"
	"testing"
	"time"
)

// newTestStore pins the clock and disables probabilistic pruning so counts
// are deterministic.
func newTestStore(max int, window time.Duration, at time.Time) (*MemoryStore, *time.Time) {
	s := NewMemoryStore(max, window)
	current := at
	s.now = func() time.Time { return current }
	s.chance = func() float64 { return 1 } // never below pruneChance
	return s, &current
}

func TestAllow_SequenceWithinWindow(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(3, time.Minute, start)
	ctx := context.Background()

	wantRemaining := []int{2, 1, 0}
	for i, want := range wantRemaining {
		res, err := s.Allow(ctx, "client-a")
		if err != nil {
			t.Fatalf("Allow error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("call %d: expected allowed", i+1)
		}
		if res.Remaining != want {
			t.Fatalf("call %d: remaining got %d want %d", i+1, res.Remaining, want)
		}
	}

	res, err := s.Allow(ctx, "client-a")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if res.Allowed {
		t.Fatalf("4th call within window must be rejected")
	}
	if res.Remaining != 0 {
		t.Fatalf("rejected call remaining: got %d want 0", res.Remaining)
	}
	if res.ResetSeconds != 60 {
		t.Fatalf("reset seconds: got %d want 60", res.ResetSeconds)
	}
}

func TestAllow_WindowReset(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, clock := newTestStore(3, time.Minute, start)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := s.Allow(ctx, "client-a"); err != nil {
			t.Fatalf("Allow error: %v", err)
		}
	}

	*clock = start.Add(time.Minute) // window deadline passed

	res, err := s.Allow(ctx, "client-a")
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("expected allowed after window reset")
	}
	if res.Remaining != 2 {
		t.Fatalf("remaining after reset: got %d want 2", res.Remaining)
	}
}

func TestAllow_IdentifiersAreIndependent(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(1, time.Minute, start)
	ctx := context.Background()

	if res, _ := s.Allow(ctx, "a"); !res.Allowed {
		t.Fatalf("first call for a must pass")
	}
	if res, _ := s.Allow(ctx, "a"); res.Allowed {
		t.Fatalf("second call for a must be rejected")
	}
	if res, _ := s.Allow(ctx, "b"); !res.Allowed {
		t.Fatalf("b has its own window and must pass")
	}
}

func TestAllow_PruneRemovesExpiredEntries(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, clock := newTestStore(3, time.Minute, start)
	s.chance = func() float64 { return 0 } // always prune
	ctx := context.Background()

	if _, err := s.Allow(ctx, "old"); err != nil {
		t.Fatalf("Allow error: %v", err)
	}

	*clock = start.Add(2 * time.Minute)
	if _, err := s.Allow(ctx, "new"); err != nil {
		t.Fatalf("Allow error: %v", err)
	}

	s.mu.Lock()
	_, oldExists := s.entries["old"]
	s.mu.Unlock()
	if oldExists {
		t.Fatalf("expired entry should have been pruned")
	}
}

func TestResetSeconds_Rounding(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{1001 * time.Millisecond, 2},
		{time.Minute, 60},
	}
	for _, tc := range tests {
		if got := resetSeconds(tc.d); got != tc.want {
			t.Fatalf("resetSeconds(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}
