package logs

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one log line kept in memory for the health analyzer.
type Entry struct {
	TimeStamp time.Time     `json:"timestamp"`
	Level     zapcore.Level `json:"level"`
	Message   string        `json:"message"`
}

// Ring keeps the most recent log entries, dropping the oldest once full.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
}

// NewRing creates a ring holding at most maxSize entries.
func NewRing(maxSize int) *Ring {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Ring{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
	}
}

func (r *Ring) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.maxSize {
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, e)
}

// GetLast returns a copy of the newest n entries, oldest first.
func (r *Ring) GetLast(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]Entry, n)
	copy(out, r.entries[len(r.entries)-n:])
	return out
}
