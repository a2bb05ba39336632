package metrics

import (
	"sync"
	"sync/atomic"
)

// MetricKey names a counter in the registry.
type MetricKey string

const (
	// Submissions
	SubmissionsTotal         MetricKey = "submissions_total"
	SubmissionsRejectedTotal MetricKey = "submissions_rejected_total"

	// Inference
	PredictionsTotal          MetricKey = "predictions_total"
	PredictionsAtRiskTotal    MetricKey = "predictions_at_risk_total"
	PredictionsNotAtRiskTotal MetricKey = "predictions_not_at_risk_total"
	InferenceFailuresTotal    MetricKey = "inference_failures_total"

	// Prediction cache
	CacheHitsTotal      MetricKey = "cache_hits_total"
	CacheMissesTotal    MetricKey = "cache_misses_total"
	CacheErrorsTotal    MetricKey = "cache_errors_total"
	CacheKeys           MetricKey = "cache_keys"
	CacheExpiredTotal   MetricKey = "cache_expired_total"
	CacheEvictionsTotal MetricKey = "cache_evictions_total"

	// TTL cleaner
	TTLCleanupRunsTotal MetricKey = "ttl_cleanup_runs_total"
	TTLKeysRemovedTotal MetricKey = "ttl_keys_removed_total"

	// History
	HistoryWritesTotal   MetricKey = "history_writes_total"
	HistoryFailuresTotal MetricKey = "history_failures_total"
)

// Registry holds named int64 counters. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*int64
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*int64),
	}
}

// Inc increments a counter by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a counter by delta. Unknown keys are created on first use.
func (r *Registry) Add(key MetricKey, delta int64) {
	atomic.AddInt64(r.counter(key), delta)
}

// Value returns the current value of a counter, zero if it was never touched.
func (r *Registry) Value(key MetricKey) int64 {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	return atomic.LoadInt64(ptr)
}

func (r *Registry) counter(key MetricKey) *int64 {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()
	if ok {
		return ptr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another writer may have created it meanwhile
	if ptr, ok = r.counters[key]; ok {
		return ptr
	}
	ptr = new(int64)
	r.counters[key] = ptr
	return ptr
}
