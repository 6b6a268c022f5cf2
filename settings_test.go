package uploadkit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := uploadkit.DefaultSettings()
	require.Contains(t, s.AuthorizedExtensions, "png")
	require.Contains(t, s.AuthorizedExtensions, "svg")
	require.Equal(t, int64(10<<20), s.MaxFileSize)
	require.True(t, s.QuantizeLossless)
	require.Equal(t, 80, s.JpegQuality)
	require.InDelta(t, 25.0, s.JpegMinSavingsPercent, 0.001)
	require.Equal(t, int64(25_000), s.JpegMinSavedBytes)
	require.Equal(t, 240, s.CropTargets[uploadkit.TypeAvatar])
	require.Equal(t, 40, s.CropTargets[uploadkit.TypeCustomEmoji])
	require.False(t, s.SecureMediaEnabled)
}

func TestSettingsFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		t.Parallel()
		doc := `
authorized_extensions: [png, pdf]
max_file_size: 5242880
jpeg_quality: 70
jpeg_min_savings_percent: 30.5
jpeg_min_saved_bytes: 10000
secure_media_enabled: true
prevent_anonymous_downloads: true
crop_targets:
  avatar: 120
`
		s, err := uploadkit.SettingsFromYAML(strings.NewReader(doc))
		require.NoError(t, err)
		require.Equal(t, []string{"png", "pdf"}, s.AuthorizedExtensions)
		require.Equal(t, int64(5<<20), s.MaxFileSize)
		require.Equal(t, 70, s.JpegQuality)
		require.InDelta(t, 30.5, s.JpegMinSavingsPercent, 0.001)
		require.Equal(t, int64(10_000), s.JpegMinSavedBytes)
		require.True(t, s.SecureMediaEnabled)
		require.True(t, s.PreventAnonymousDownloads)
		require.Equal(t, 120, s.CropTargets[uploadkit.TypeAvatar])
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		_, err := uploadkit.SettingsFromYAML(strings.NewReader("no_such_setting: true\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		t.Parallel()
		_, err := uploadkit.SettingsFromYAML(strings.NewReader("max_file_size: [broken\n"))
		require.Error(t, err)
	})
}
