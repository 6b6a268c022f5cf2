package uploadkit

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/uploadkit/pkg/filetype"
	"github.com/dmitrymomot/uploadkit/pkg/imagetransform"
	"github.com/dmitrymomot/uploadkit/pkg/svgsanitize"
)

// Error kinds surfaced by the pipeline. Leaf package errors are wrapped
// with one of these so callers can classify without importing leaves:
//
//	if errors.Is(err, uploadkit.ErrValidation) { ... 422 ... }
var (
	// ErrValidation marks input rejected before any transformation or
	// storage I/O: disallowed extension, empty or oversized content,
	// malformed SVG, undecodable bytes under an image extension.
	ErrValidation = errors.New("uploadkit: validation failed")

	// ErrStorage marks a backend write failure. Nothing is committed to
	// the repository when storage fails.
	ErrStorage = errors.New("uploadkit: storage failed")

	// ErrArtifactNotFound is returned by Repository lookups that match
	// nothing.
	ErrArtifactNotFound = errors.New("uploadkit: artifact not found")

	// ErrDuplicateHash is returned by Repository.Insert when an
	// artifact with the same content hash already exists. The pipeline
	// handles it internally by re-reading and linking; it never
	// surfaces from CreateFor.
	ErrDuplicateHash = errors.New("uploadkit: duplicate content hash")
)

func validationErr(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// isValidationCause reports whether err is one of the leaf validation
// failures that must abort the upload.
func isValidationCause(err error) bool {
	return errors.Is(err, filetype.ErrEmptyFile) ||
		errors.Is(err, filetype.ErrFileTooLarge) ||
		errors.Is(err, filetype.ErrExtensionNotAllowed) ||
		errors.Is(err, filetype.ErrUnresolvableType) ||
		errors.Is(err, svgsanitize.ErrMalformedSVG) ||
		errors.Is(err, imagetransform.ErrUndecodableImage)
}
