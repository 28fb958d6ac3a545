// Package ratelimit bounds request rate per client identifier using a
// fixed window: each identifier gets an independent counter that resets
// when its window deadline passes. The request that brings the count to
// exactly the maximum is still allowed; the next one is rejected until
// the window resets.
package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Result is the outcome of an Allow decision.
type Result struct {
	Allowed      bool
	Remaining    int
	ResetSeconds int
}

// Limiter decides whether a request from a client identifier fits the
// configured quota. Implementations never panic; transport errors (Redis)
// are returned so the caller can decide whether to fail open.
type Limiter interface {
	Allow(ctx context.Context, id string) (Result, error)
	Limit() int
}

// pruneChance is the fraction of Allow calls that also sweep expired
// entries. Entries are cheap and self-expiring, so opportunistic cleanup
// is enough to bound memory growth.
const pruneChance = 0.01

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a mutex-guarded in-process Limiter. The lock closes the
// lost-update race between concurrent requests for the same identifier.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration

	// seams for tests
	now    func() time.Time
	chance func() float64
}

func NewMemoryStore(maxRequests int, window time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		max:     maxRequests,
		window:  window,
		now:     time.Now,
		chance:  rand.Float64,
	}
}

func (s *MemoryStore) Limit() int { return s.max }

// Allow looks up or lazily creates the counter for id, resets it if its
// window has passed, increments it, and reports the decision.
func (s *MemoryStore) Allow(ctx context.Context, id string) (Result, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{resetAt: now.Add(s.window)}
		s.entries[id] = e
	} else if !now.Before(e.resetAt) {
		e.count = 0
		e.resetAt = now.Add(s.window)
	}

	e.count++

	if s.chance() < pruneChance {
		s.prune(now)
	}

	remaining := s.max - e.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:      e.count <= s.max,
		Remaining:    remaining,
		ResetSeconds: resetSeconds(e.resetAt.Sub(now)),
	}, nil
}

// prune removes expired entries. Caller must hold s.mu.
func (s *MemoryStore) prune(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, id)
		}
	}
}

func resetSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d.Milliseconds()) / 1000))
}
