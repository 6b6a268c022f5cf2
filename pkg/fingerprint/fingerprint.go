package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Fingerprint identifies a byte sequence by its SHA-256 digest and length.
// The zero value is not a valid fingerprint.
type Fingerprint struct {
	// Hash is the lowercase hex-encoded SHA-256 digest of the content.
	Hash string

	// Size is the content length in bytes.
	Size int64
}

// String returns the fingerprint in "hash:size" form, useful as a cache
// or map key.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%s:%d", f.Hash, f.Size)
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f.Hash == ""
}

// Equal reports whether two fingerprints identify the same content.
// Both the digest and the length must match.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Hash == other.Hash && f.Size == other.Size
}

// Compute returns the fingerprint of data.
func Compute(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint{
		Hash: hex.EncodeToString(sum[:]),
		Size: int64(len(data)),
	}
}

// ComputeReader returns the fingerprint of everything readable from r.
// The reader is consumed to EOF.
func ComputeReader(r io.Reader) (Fingerprint, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint: read content: %w", err)
	}
	return Fingerprint{
		Hash: hex.EncodeToString(h.Sum(nil)),
		Size: n,
	}, nil
}
