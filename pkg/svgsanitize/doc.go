// Package svgsanitize strips executable content from SVG documents.
//
// SVG is an XML dialect that can carry script: <script> elements,
// on* event-handler attributes, javascript: URLs, and DTD entity
// declarations. Serving user-supplied SVG without removing these is a
// stored-XSS vector. Sanitize removes exactly that class of content and
// preserves everything else, so a clean document round-trips unchanged
// apart from canonical serialization.
//
//	clean, err := svgsanitize.Sanitize(data)
//	if err != nil {
//		// malformed markup, reject the upload
//	}
//
// Sanitize is idempotent: sanitizing its own output is a no-op.
package svgsanitize
