package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRetryWithBackoff(t *testing.T) {
	down := errors.New("connection refused")

	t.Run("succeeds after a failure", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			if calls == 1 {
				return down
			}
			return nil
		}, 3, time.Millisecond, zap.NewNop(), "redis ping")
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("no wait after the last attempt", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := retryWithBackoff(context.Background(), func() error {
			calls++
			return down
		}, 1, time.Hour, zap.NewNop(), "redis ping")
		require.Error(t, err)
		assert.ErrorIs(t, err, down)
		assert.Equal(t, 1, calls)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("cancellation stops the backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		start := time.Now()
		err := retryWithBackoff(ctx, func() error {
			calls++
			cancel()
			return down
		}, 5, time.Hour, zap.NewNop(), "redis ping")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
		assert.Less(t, time.Since(start), time.Second)
	})
}
