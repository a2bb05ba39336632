package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func noJitter(time.Duration) time.Duration { return 0 }

func TestRetry(t *testing.T) {
	t.Run("success_on_first_attempt", func(t *testing.T) {
		policy := Policy{MaxRetries: 3, BaseBackoff: 10 * time.Millisecond, MaxBackoff: 100 * time.Millisecond, JitterFn: noJitter}

		attempts := 0
		err := Retry(context.Background(), policy, func() error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("success_after_retry", func(t *testing.T) {
		policy := Policy{MaxRetries: 3, BaseBackoff: time.Millisecond, MaxBackoff: 10 * time.Millisecond, JitterFn: noJitter}

		attempts := 0
		err := Retry(context.Background(), policy, func() error {
			attempts++
			if attempts < 2 {
				return errors.New("connection refused")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("exhaust_retries_returns_last_error", func(t *testing.T) {
		policy := Policy{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, JitterFn: noJitter}

		attempts := 0
		last := errors.New("attempt 3")
		err := Retry(context.Background(), policy, func() error {
			attempts++
			if attempts == 3 {
				return last
			}
			return errors.New("earlier attempt")
		})
		assert.ErrorIs(t, err, last)
		assert.Equal(t, 3, attempts)
	})

	t.Run("context_cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		policy := Policy{MaxRetries: 5, BaseBackoff: 10 * time.Millisecond, MaxBackoff: 100 * time.Millisecond, JitterFn: noJitter}

		err := Retry(ctx, policy, func() error {
			return errors.New("failed")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("max_backoff_cap", func(t *testing.T) {
		policy := Policy{MaxRetries: 3, BaseBackoff: 50 * time.Millisecond, MaxBackoff: 60 * time.Millisecond, JitterFn: noJitter}

		attempts := 0
		start := time.Now()
		_ = Retry(context.Background(), policy, func() error {
			attempts++
			return errors.New("failed")
		})

		elapsed := time.Since(start)
		assert.Greater(t, elapsed, policy.BaseBackoff)
		assert.Less(t, elapsed, 2*time.Second)
		assert.Equal(t, 4, attempts)
	})
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, p.JitterFn(500*time.Millisecond))
}
