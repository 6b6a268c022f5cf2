package filetype

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Resolved is the outcome of reconciling a declared filename with the
// sniffed content type.
type Resolved struct {
	// Extension is the resolved lowercase extension without the dot.
	// It matches the sniffed type when the declared extension lied about
	// a coercible image format, and the declared extension otherwise.
	Extension string

	// Filename is the sanitized declared filename, with its extension
	// replaced whenever Extension was corrected.
	Filename string

	// MIME is the sniffed media type, e.g. "image/png".
	MIME string

	// Corrected reports whether the declared extension was replaced.
	Corrected bool
}

// IsImage reports whether the sniffed type is a raster or vector image.
func (r Resolved) IsImage() bool {
	return strings.HasPrefix(r.MIME, "image/")
}

// IsSVG reports whether the sniffed type is an SVG document.
func (r Resolved) IsSVG() bool {
	return r.MIME == "image/svg+xml"
}

// coercibleExtensions are the image formats the pipeline re-encodes.
// Only these are trusted enough to override a lying declared extension;
// anything else keeps the caller's extension and is merely validated.
var coercibleExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Resolve sniffs data and reconciles the result with filename.
//
// The declared extension wins unless the content is a coercible image
// format under a different extension: then extension and filename are
// corrected to the sniffed format. A filename without an extension
// adopts the sniffed extension when one is known.
func Resolve(data []byte, filename string) Resolved {
	filename = SanitizeFilename(filename)
	declared := extensionOf(filename)

	mime := mimetype.Detect(data)
	sniffed := strings.TrimPrefix(mime.Extension(), ".")

	res := Resolved{
		Extension: declared,
		Filename:  filename,
		MIME:      normalizeMIME(mime.String()),
	}

	if sniffed == "" || sniffed == declared {
		return res
	}

	// jpg and jpeg are the same format; never "correct" one to the other.
	if isJpeg(sniffed) && isJpeg(declared) {
		return res
	}

	if declared == "" {
		res.Extension = sniffed
		res.Filename = filename + "." + sniffed
		res.Corrected = true
		return res
	}

	if slices.Contains(coercibleExtensions, sniffed) {
		res.Extension = sniffed
		res.Filename = ReplaceExtension(filename, sniffed)
		res.Corrected = true
	}

	return res
}

// ValidateConfig carries the per-request validation policy.
type ValidateConfig struct {
	// AllowedExtensions is the extension allow-list, entries without dots.
	AllowedExtensions []string

	// MaxSize is the maximum content length in bytes. Zero disables the check.
	MaxSize int64

	// BypassAllowList skips the extension allow-list (site-setting and
	// theme uploads performed by administrators).
	BypassAllowList bool
}

// Validate checks content length and the resolved extension against the
// configured policy. It returns a sentinel error wrapped with detail.
func Validate(data []byte, ext string, cfg ValidateConfig) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if cfg.MaxSize > 0 && int64(len(data)) > cfg.MaxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(data), cfg.MaxSize)
	}
	if cfg.BypassAllowList {
		return nil
	}
	if ext == "" {
		return ErrUnresolvableType
	}
	for _, allowed := range cfg.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
}

// extensionOf returns the lowercase extension of name without the dot.
func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// ReplaceExtension swaps the extension of name, preserving the base
// name. Used when a format conversion changes the stored encoding.
func ReplaceExtension(name, ext string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name + "." + ext
	}
	return name[:idx] + "." + ext
}

// normalizeMIME strips parameters like charset from a media type.
func normalizeMIME(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	return strings.TrimSpace(strings.ToLower(mime))
}

func isJpeg(ext string) bool {
	return ext == "jpg" || ext == "jpeg"
}
