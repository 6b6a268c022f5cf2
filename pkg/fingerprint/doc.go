// Package fingerprint computes content fingerprints for uploaded data.
//
// A fingerprint is the pair of a SHA-256 hex digest and the byte length
// of the content. Together they identify a byte sequence for
// deduplication: two uploads with equal fingerprints are treated as the
// same artifact.
//
//	fp := fingerprint.Compute(data)
//	existing, err := repo.FindByHash(ctx, fp.Hash, fp.Size)
//
// Fingerprints must always be computed over the bytes that end up at
// rest. When a pipeline transforms content before storing it, the
// definitive fingerprint is taken after transformation.
package fingerprint
