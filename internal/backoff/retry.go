// Package backoff retries startup dependency checks with exponential backoff.
// Request-path calls, inference included, are never retried.
package backoff

import (
	"context"
	"time"
)

// Policy controls retry behavior.
type Policy struct {
	MaxRetries  int           // retries after the first attempt
	BaseBackoff time.Duration // initial wait
	MaxBackoff  time.Duration // upper bound on a single wait
	JitterFn    func(time.Duration) time.Duration
}

// DefaultPolicy waits 500ms, 1s, 2s, 4s, 5s between attempts, plus up to 50% jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  5,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
		JitterFn:    func(d time.Duration) time.Duration { return d / 2 },
	}
}

// Retry executes fn until it returns nil, the retries are exhausted or ctx is done.
// The last error from fn is returned when retries run out.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	var attempt int
	backoff := policy.BaseBackoff

	for {
		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if policy.JitterFn != nil {
			delay += policy.JitterFn(backoff)
		}
		if delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
