package store

import (
	"context"
	"sync"
	"time"

	"heart-risk/internal/metrics"
)

// MemoryKV is an in-process KV guarded by a RWMutex.
// Expired keys are dropped lazily on Get and in bulk by RemoveExpired.
// When maxEntries is reached, inserting a new key first drops expired keys and
// then evicts the oldest insertion.
type MemoryKV struct {
	mu         sync.RWMutex
	data       map[string]entry
	seq        uint64
	maxEntries int
	metrics    *metrics.Registry
	now        func() time.Time
}

// NewMemoryKV creates a store holding at most maxEntries keys; zero or less means unbounded.
func NewMemoryKV(reg *metrics.Registry, maxEntries int) *MemoryKV {
	return &MemoryKV{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		metrics:    reg,
		now:        time.Now,
	}
}

func (s *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	now := s.now()
	e := entry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		if s.maxEntries > 0 && len(s.data) >= s.maxEntries {
			s.makeRoom(now)
		}
		s.metrics.Inc(metrics.CacheKeys)
	}
	s.seq++
	e.seq = s.seq
	s.data[key] = e
	return nil
}

// makeRoom frees at least one slot. Caller holds the write lock.
func (s *MemoryKV) makeRoom(now time.Time) {
	if s.removeExpiredLocked(now) > 0 {
		return
	}

	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	for k, e := range s.data {
		if !found || e.seq < oldestSeq {
			oldestKey, oldestSeq, found = k, e.seq, true
		}
	}
	if found {
		delete(s.data, oldestKey)
		s.metrics.Inc(metrics.CacheEvictionsTotal)
		s.metrics.Add(metrics.CacheKeys, -1)
	}
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	e, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return "", ErrMiss
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if cur, ok := s.data[key]; ok && cur.expired(s.now()) {
			delete(s.data, key)
			s.metrics.Inc(metrics.CacheExpiredTotal)
			s.metrics.Add(metrics.CacheKeys, -1)
		}
		s.mu.Unlock()
		return "", ErrMiss
	}
	return e.Value, nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.metrics.Add(metrics.CacheKeys, -1)
	}
	return nil
}

// Len counts live entries.
func (s *MemoryKV) Len() int {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.data {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// RemoveExpired deletes every expired key and returns how many were removed.
func (s *MemoryKV) RemoveExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeExpiredLocked(now)
}

func (s *MemoryKV) removeExpiredLocked(now time.Time) int {
	removed := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			removed++
		}
	}

	if removed > 0 {
		s.metrics.Add(metrics.CacheExpiredTotal, int64(removed))
		s.metrics.Add(metrics.CacheKeys, -int64(removed))
	}
	return removed
}
