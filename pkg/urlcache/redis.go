package urlcache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by Redis, for deployments where multiple
// instances serve the same artifacts. Values are plain strings; no
// serialization layer is needed.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed cache. The client lifecycle is owned
// by the caller. Keys are namespaced under prefix (default "signed-url").
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "signed-url"
	}
	return &Redis{client: client, prefix: prefix}
}

// Get returns the cached URL for key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	url, err := r.client.Get(ctx, r.prefix+":"+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return url, nil
}

// Set stores url under key for ttl.
func (r *Redis) Set(ctx context.Context, key, url string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+":"+key, url, ttl).Err()
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+":"+key).Err()
}
