package storage

import (
	"context"
	"fmt"
)

// Storage is the backend contract the upload pipeline commits bytes to.
type Storage interface {
	// Put writes data under key and returns its location. Writing the
	// same key twice is allowed and idempotent for identical content,
	// which is what content-addressed keys guarantee.
	Put(ctx context.Context, key string, data []byte, opts ...PutOption) (*PutResult, error)

	// URL returns an access URL for a stored object: the canonical URL
	// by default, a time-limited signed URL with WithSigned on backends
	// that support signing. Callers pass WithSigned for secure artifacts.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)

	// Delete removes an object. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// PutResult describes a stored object.
type PutResult struct {
	// Key the object was stored under.
	Key string

	// URL is the canonical location: the public object URL for S3, the
	// served path for the local backend.
	URL string

	// ETag is the provider entity tag. Empty for the local backend.
	ETag string
}

// ContentKey builds the content-addressed storage key for an artifact:
// two fan-out path segments from the hash prefix, then the full hash
// with the resolved extension.
func ContentKey(hash, ext string) string {
	if len(hash) < 4 {
		// Degenerate hash; store flat rather than panic.
		return hash + "." + ext
	}
	if ext == "" {
		return fmt.Sprintf("%s/%s/%s", hash[:2], hash[2:4], hash)
	}
	return fmt.Sprintf("%s/%s/%s.%s", hash[:2], hash[2:4], hash, ext)
}
