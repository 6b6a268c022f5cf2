// Package imagetransform re-encodes uploaded images before storage.
//
// The transformer trades fidelity for size under explicit numeric
// thresholds. Per request it can convert formats the system does not
// serve as-is (bmp, tiff), crop to a fixed target dimension, quantize
// PNGs to an indexed palette, and replace a PNG with a JPEG re-encode
// when the saving clears both a relative and an absolute threshold.
//
// Failure policy: bytes that cannot be decoded at all are an error
// (callers treat it as validation failure for content claiming an image
// extension). Failures inside individual passes degrade gracefully: the
// transformer logs and carries the last good bytes forward instead of
// failing the upload.
package imagetransform
