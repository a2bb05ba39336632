package metrics

import "sync/atomic"

// Snapshot copies every counter into a plain map keyed by metric name.
// Mutating the returned map does not touch the registry.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.counters))
	for key, ptr := range r.counters {
		out[string(key)] = atomic.LoadInt64(ptr)
	}
	return out
}
