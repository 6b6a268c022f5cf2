// Package filetype resolves the true type of uploaded content.
//
// Callers declare a filename, but the declared extension is untrusted:
// the package sniffs magic bytes (via gabriel-vasile/mimetype) and
// reconciles the two. For image formats the pipeline actively
// re-encodes (png, jpg, gif), a lying extension is corrected in both
// the resolved extension and the filename. For everything else the
// declared extension is kept and only validated against the allow-list,
// so a disguised binary is never silently renamed.
//
//	res := filetype.Resolve(data, "logo.bin")
//	// res.Extension == "png", res.Filename == "logo.png" for PNG bytes
//
// Validation (size limits, extension allow-list) is a separate step so
// policy can be injected per request:
//
//	err := filetype.Validate(data, res.Extension, filetype.ValidateConfig{
//		AllowedExtensions: []string{"jpg", "png", "gif"},
//		MaxSize:           10 << 20,
//	})
package filetype
