package store

import "time"

// entry is one cached value. A zero ExpiresAt never expires.
// seq orders entries by insertion for eviction.
type entry struct {
	Value     string
	ExpiresAt time.Time
	seq       uint64
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
