package uploadkit

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is the durable, deduplicated representation of uploaded
// content. Its hash and size always describe the bytes at rest, after
// any transformation, and its extension always matches the stored
// encoding when the pipeline performed a format conversion.
type Artifact struct {
	ID uuid.UUID

	// Hash is the hex SHA-256 digest of the stored bytes. Unique across
	// all artifacts.
	Hash string

	// Size is the stored byte length.
	Size int64

	// Extension is the resolved extension, lowercase without dot.
	Extension string

	// Filename is the sanitized original filename, extension-corrected
	// when the declared extension lied or a conversion changed formats.
	Filename string

	// Width and Height are pixel dimensions, zero for non-images.
	Width  int
	Height int

	// URL is the canonical storage location returned by the backend.
	// Secure artifacts are accessed through signed URLs instead; see
	// Pipeline.URLFor.
	URL string

	// ETag is the provider entity tag, empty for local storage.
	ETag string

	// Secure marks artifacts that require authenticated or signed access.
	Secure bool

	// OwnerID is the principal that first created the artifact.
	OwnerID uuid.UUID

	CreatedAt time.Time
}

// OwnershipLink ties a principal to an artifact. One link is created
// per successful CreateFor call, including dedup hits, so the same
// principal may hold several links to one artifact. The pipeline never
// deletes links.
type OwnershipLink struct {
	ID          uuid.UUID
	PrincipalID uuid.UUID
	ArtifactID  uuid.UUID
	CreatedAt   time.Time
}
