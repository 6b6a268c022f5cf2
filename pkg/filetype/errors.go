package filetype

import "errors"

// Sentinel errors for type resolution and validation.
var (
	ErrEmptyFile           = errors.New("filetype: file is empty")
	ErrFileTooLarge        = errors.New("filetype: file exceeds size limit")
	ErrExtensionNotAllowed = errors.New("filetype: extension not allowed")
	ErrUnresolvableType    = errors.New("filetype: cannot resolve file type")
)
