package filetype

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	stripPolicy *bluemonday.Policy
	stripOnce   sync.Once
)

// SanitizeFilename normalizes a caller-declared filename so it is safe
// to persist and render. It drops any path components, strips embedded
// markup (filenames end up in HTML attribute values downstream), and
// applies Unicode NFC normalization so visually identical names hash
// and compare equally.
func SanitizeFilename(name string) string {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})

	// Windows clients send backslash-separated paths.
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}

	name = stripPolicy.Sanitize(name)
	name = norm.NFC.String(name)

	return strings.TrimSpace(name)
}
