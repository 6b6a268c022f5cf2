// Package uploadkit turns untrusted uploaded bytes into durable,
// deduplicated artifacts.
//
// The pipeline validates the declared file type against magic bytes,
// sanitizes SVG documents, re-encodes images under configurable size
// thresholds, classifies access sensitivity, deduplicates by content
// fingerprint, and commits the final bytes to a pluggable storage
// backend.
//
//	pipe := uploadkit.New(uploadkit.DefaultSettings(), repo, store)
//	artifact, link, err := pipe.CreateFor(ctx, data, "photo.png", userID, uploadkit.UploadOptions{
//		Type: uploadkit.TypeComposer,
//	})
//
// Uploading byte-identical content twice yields the same artifact and a
// fresh ownership link per call. Concurrent uploads of identical
// content resolve to a single artifact through a uniqueness constraint
// on the content hash; losers of the race fall back to linking against
// the winner.
package uploadkit
