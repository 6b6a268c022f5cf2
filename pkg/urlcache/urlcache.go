package urlcache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("urlcache: entry not found")

// Cache stores signed URLs keyed by storage key.
type Cache interface {
	// Get returns the cached URL for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a URL under key for ttl.
	Set(ctx context.Context, key, url string, ttl time.Duration) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

var sfGroup singleflight.Group

// GetOrSign returns the cached URL for key or calls sign to produce a
// new one. The result is cached for half of expiry so handed-out URLs
// always retain at least half their signature validity. Concurrent
// misses for the same key invoke sign only once.
func GetOrSign(ctx context.Context, c Cache, key string, expiry time.Duration, sign func(ctx context.Context) (string, error)) (string, error) {
	if url, err := c.Get(ctx, key); err == nil {
		return url, nil
	}

	v, err, _ := sfGroup.Do(key, func() (any, error) {
		return sign(ctx)
	})
	if err != nil {
		return "", err
	}
	url := v.(string)

	// Best-effort: a failed cache write only costs a future re-sign.
	_ = c.Set(ctx, key, url, expiry/2)

	return url, nil
}
