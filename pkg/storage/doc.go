// Package storage persists finalized upload bytes.
//
// Two backends implement the same contract: an S3-compatible object
// store and a local filesystem. Both take content-addressed keys
// derived from the artifact's fingerprint, so identical content always
// lands on the same key and a lost creation race never leaves an
// orphaned object behind.
//
// # Basic Usage
//
//	store, err := storage.NewS3(storage.S3Config{
//		Bucket:    "uploads",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//
//	key := storage.ContentKey(fp.Hash, "png")
//	res, err := store.Put(ctx, key, data,
//		storage.WithContentType("image/png"),
//		storage.WithSecure(true),
//	)
//
// Secure objects are stored privately; URL returns a time-limited
// presigned URL for them instead of the canonical object URL. The local
// backend has no signing facility and always returns a path-style URL;
// access control for local files is the serving layer's concern.
package storage
