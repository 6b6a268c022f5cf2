package uploadkit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Settings is the immutable policy snapshot injected into the pipeline
// at construction time. Site configuration changes take effect by
// building a new Pipeline, never by mutating a running one.
type Settings struct {
	// AuthorizedExtensions is the extension allow-list (no dots).
	AuthorizedExtensions []string `yaml:"authorized_extensions"`

	// AdminBypassAllowList lets site-setting and theme uploads skip the
	// extension allow-list.
	AdminBypassAllowList bool `yaml:"admin_bypass_allow_list"`

	// MaxFileSize is the maximum upload size in bytes. Zero disables
	// the check.
	MaxFileSize int64 `yaml:"max_file_size"`

	// QuantizeLossless enables the indexed-color quantization pass for PNGs.
	QuantizeLossless bool `yaml:"quantize_lossless"`

	// JpegQuality enables PNG-to-JPEG conversion when non-zero (1-100).
	JpegQuality int `yaml:"jpeg_quality"`

	// JpegMinSavingsPercent is the relative saving a JPEG re-encode
	// must reach, inclusive.
	JpegMinSavingsPercent float64 `yaml:"jpeg_min_savings_percent"`

	// JpegMinSavedBytes is the absolute saving a JPEG re-encode must
	// reach, inclusive.
	JpegMinSavedBytes int64 `yaml:"jpeg_min_saved_bytes"`

	// SecureMediaEnabled turns secure classification on globally.
	SecureMediaEnabled bool `yaml:"secure_media_enabled"`

	// LoginRequired marks the whole site as authenticated-only, which
	// makes otherwise-public uploads secure.
	LoginRequired bool `yaml:"login_required"`

	// PreventAnonymousDownloads marks non-image attachments secure
	// regardless of secure media policy.
	PreventAnonymousDownloads bool `yaml:"prevent_anonymous_downloads"`

	// CropTargets maps crop-eligible upload types to their square
	// target dimension in pixels.
	CropTargets map[UploadType]int `yaml:"crop_targets"`
}

// DefaultSettings returns the policy used when no site configuration
// overrides it.
func DefaultSettings() Settings {
	return Settings{
		AuthorizedExtensions:  []string{"jpg", "jpeg", "png", "gif", "webp", "svg", "txt", "pdf"},
		MaxFileSize:           10 << 20,
		QuantizeLossless:      true,
		JpegQuality:           80,
		JpegMinSavingsPercent: 25,
		JpegMinSavedBytes:     25_000,
		CropTargets: map[UploadType]int{
			TypeAvatar:      240,
			TypeCustomEmoji: 40,
		},
	}
}

// SettingsFromYAML reads a Settings snapshot from YAML. Fields absent
// from the document keep their zero values; callers wanting defaults
// underneath should unmarshal over DefaultSettings via yaml directly.
func SettingsFromYAML(r io.Reader) (Settings, error) {
	var s Settings
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("uploadkit: parse settings yaml: %w", err)
	}
	return s, nil
}
