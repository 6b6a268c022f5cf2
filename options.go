package uploadkit

import (
	"log/slog"

	"github.com/dmitrymomot/uploadkit/pkg/urlcache"
)

// UploadType is the usage context of an upload. It drives crop-target
// selection and security classification.
type UploadType string

// Recognized usage contexts. The set is open: unknown types get no
// crop target and the default security treatment.
const (
	TypeAvatar      UploadType = "avatar"
	TypeComposer    UploadType = "composer"
	TypeCustomEmoji UploadType = "custom_emoji"
	TypeAttachment  UploadType = "attachment"
)

// UploadOptions carries the per-request processing flags. Immutable
// once passed to CreateFor.
type UploadOptions struct {
	// Type is the usage context.
	Type UploadType

	// ForSiteSetting marks artifacts backing a site-wide configuration
	// value. Never classified secure; bypasses the extension allow-list.
	ForSiteSetting bool

	// ForTheme marks theme assets. Never classified secure; bypasses
	// the extension allow-list.
	ForTheme bool

	// ForPrivateMessage marks attachments to private conversations.
	// Forces secure classification when secure media is enabled.
	ForPrivateMessage bool

	// Pasted marks clipboard-originated content, which skips image
	// optimization unless ForceOptimize is set.
	Pasted bool

	// ForceOptimize runs image transformation even for pasted content.
	ForceOptimize bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for absorbed transformation
// failures. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithURLCache enables signed-URL caching for secure artifacts.
func WithURLCache(c urlcache.Cache) Option {
	return func(p *Pipeline) {
		p.urlCache = c
	}
}
