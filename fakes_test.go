package uploadkit_test

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrymomot/uploadkit"
	"github.com/dmitrymomot/uploadkit/pkg/storage"
)

// countingStorage records Put calls and the most recent payload so tests
// can assert on what actually went to the backend.
type countingStorage struct {
	mu       sync.Mutex
	puts     int
	lastData []byte
}

func (s *countingStorage) Put(_ context.Context, key string, data []byte, _ ...storage.PutOption) (*storage.PutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	s.lastData = append([]byte(nil), data...)
	return &storage.PutResult{Key: key, URL: "mem://" + key}, nil
}

func (s *countingStorage) URL(_ context.Context, key string, _ ...storage.URLOption) (string, error) {
	return "mem://" + key, nil
}

func (s *countingStorage) Delete(context.Context, string) error { return nil }

// failingStorage rejects every write.
type failingStorage struct{}

func (failingStorage) Put(context.Context, string, []byte, ...storage.PutOption) (*storage.PutResult, error) {
	return nil, errors.New("backend unavailable")
}

func (failingStorage) URL(context.Context, string, ...storage.URLOption) (string, error) {
	return "", errors.New("backend unavailable")
}

func (failingStorage) Delete(context.Context, string) error { return nil }

// signingStorage mimics an S3-style backend: canonical URLs by default,
// a presigned URL when the caller asks for one.
type signingStorage struct {
	base string
}

func (s *signingStorage) Put(_ context.Context, key string, _ []byte, _ ...storage.PutOption) (*storage.PutResult, error) {
	return &storage.PutResult{Key: key, URL: s.base + key}, nil
}

func (s *signingStorage) URL(_ context.Context, key string, opts ...storage.URLOption) (string, error) {
	options := storage.NewURLOptions(opts...)
	if options.ForceSigned {
		return s.base + key + "?X-Amz-Signature=deadbeef", nil
	}
	return s.base + key, nil
}

func (s *signingStorage) Delete(context.Context, string) error { return nil }

// racingRepo forces dedup probes to miss for a configurable number of
// lookups, reproducing the window where two uploads of the same content
// both pass the probe and race on insert.
type racingRepo struct {
	*uploadkit.MemoryRepository

	mu           sync.Mutex
	blindLookups int
}

func (r *racingRepo) FindByHash(ctx context.Context, hash string, size int64) (*uploadkit.Artifact, error) {
	r.mu.Lock()
	if r.blindLookups > 0 {
		r.blindLookups--
		r.mu.Unlock()
		return nil, uploadkit.ErrArtifactNotFound
	}
	r.mu.Unlock()
	return r.MemoryRepository.FindByHash(ctx, hash, size)
}
