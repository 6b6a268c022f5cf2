package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/pkg/redis"
)

func TestOpen_ConfigErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Open(ctx, redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Open(ctx, redis.Config{URL: "http://localhost:6379"})
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("unparseable url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Open(ctx, redis.Config{URL: "redis://:@:bad:port"})
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("unreachable host fails after retries", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		_, err := redis.Open(ctx, redis.Config{
			URL:           "redis://127.0.0.1:1", // nothing listens on port 1
			RetryAttempts: 1,
			RetryInterval: 10 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
	})
}
