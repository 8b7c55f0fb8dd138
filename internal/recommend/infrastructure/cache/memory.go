package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// MemoryStore is an in-process cache guarded by an RWMutex: concurrent
// reads never block each other, only writes serialize.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory cache with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a cached result if present and unexpired. The result is
// a copy; callers may mutate it freely.
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Result, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return cloneResult(e.result), true
}

// Set stores a copy of the result under the key.
func (s *MemoryStore) Set(_ context.Context, key string, result *domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		result:    cloneResult(result),
		expiresAt: s.now().Add(s.ttl),
	}
}

// Invalidate drops all entries.
func (s *MemoryStore) Invalidate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
	return nil
}

// cloneResult detaches a result from the cached copy so neither side
// can mutate the other through shared slices.
func cloneResult(r *domain.Result) *domain.Result {
	if r == nil {
		return nil
	}

	out := &domain.Result{
		Ranked:      make([]domain.PriorityResult, len(r.Ranked)),
		Explanation: r.Explanation,
	}
	for i, pr := range r.Ranked {
		pr.Factors = append([]domain.FactorScore(nil), pr.Factors...)
		pr.Reasons = append([]string(nil), pr.Reasons...)
		out.Ranked[i] = pr
	}

	ex := &out.Explanation
	ex.ReasoningSteps = append([]domain.ReasoningStep(nil), ex.ReasoningSteps...)
	ex.Alternatives = append([]domain.Alternative(nil), ex.Alternatives...)
	ex.Warnings = append([]string(nil), ex.Warnings...)
	return out
}

// Len returns the number of entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
