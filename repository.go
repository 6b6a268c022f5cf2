package uploadkit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists artifact metadata and ownership links. The
// pipeline relies on the store enforcing hash uniqueness: Insert must
// return ErrDuplicateHash when an artifact with the same content hash
// already exists, which is how concurrent duplicate uploads resolve to
// a single winner.
type Repository interface {
	// FindByHash returns the artifact with the exact hash and size, or
	// ErrArtifactNotFound.
	FindByHash(ctx context.Context, hash string, size int64) (*Artifact, error)

	// Insert stores a new artifact. Returns ErrDuplicateHash on a
	// content hash collision with an existing row.
	Insert(ctx context.Context, a *Artifact) error

	// LinkOwnership appends an ownership link. Duplicate
	// (principal, artifact) pairs are allowed; every call creates a row.
	LinkOwnership(ctx context.Context, principalID, artifactID uuid.UUID) (*OwnershipLink, error)
}

// MemoryRepository is an in-process Repository for tests and local
// development. It enforces the same hash-uniqueness invariant a real
// database does with a unique index.
type MemoryRepository struct {
	mu     sync.Mutex
	byHash map[string]*Artifact
	links  []OwnershipLink
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byHash: make(map[string]*Artifact)}
}

// FindByHash returns the artifact with the exact hash and size.
func (r *MemoryRepository) FindByHash(_ context.Context, hash string, size int64) (*Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byHash[hash]
	if !ok || a.Size != size {
		return nil, ErrArtifactNotFound
	}
	cp := *a
	return &cp, nil
}

// Insert stores a new artifact, enforcing hash uniqueness.
func (r *MemoryRepository) Insert(_ context.Context, a *Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byHash[a.Hash]; exists {
		return ErrDuplicateHash
	}
	cp := *a
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.byHash[a.Hash] = &cp
	return nil
}

// LinkOwnership appends an ownership link.
func (r *MemoryRepository) LinkOwnership(_ context.Context, principalID, artifactID uuid.UUID) (*OwnershipLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link := OwnershipLink{
		ID:          uuid.New(),
		PrincipalID: principalID,
		ArtifactID:  artifactID,
		CreatedAt:   time.Now(),
	}
	r.links = append(r.links, link)
	return &link, nil
}

// ArtifactCount reports the number of stored artifacts.
func (r *MemoryRepository) ArtifactCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byHash)
}

// LinkCount reports the number of ownership links a principal holds on
// an artifact.
func (r *MemoryRepository) LinkCount(principalID, artifactID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, l := range r.links {
		if l.PrincipalID == principalID && l.ArtifactID == artifactID {
			n++
		}
	}
	return n
}

// TotalLinks reports the number of ownership links on an artifact
// across all principals.
func (r *MemoryRepository) TotalLinks(artifactID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, l := range r.links {
		if l.ArtifactID == artifactID {
			n++
		}
	}
	return n
}
