// Package store holds the key-value backends used to memoize predictions.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

// KV is a string key-value store with per-key TTL. A ttl of zero means no expiry.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
