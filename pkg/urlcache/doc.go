// Package urlcache caches signed access URLs for secure artifacts.
//
// Presigning every download request is wasteful: the signature is valid
// for minutes, so the same URL can be handed out repeatedly. The cache
// stores a signed URL for half its signature lifetime, guaranteeing a
// cached entry always has at least half its validity window left.
//
//	url, err := urlcache.GetOrSign(ctx, cache, key, 15*time.Minute,
//		func(ctx context.Context) (string, error) {
//			return store.URL(ctx, key, storage.WithSigned())
//		})
//
// Two backends: an in-process memory cache and Redis for multi-instance
// deployments. Concurrent misses for the same key are collapsed with
// singleflight so a popular artifact is signed once, not once per request.
package urlcache
