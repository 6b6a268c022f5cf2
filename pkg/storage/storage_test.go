package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentKey(t *testing.T) {
	t.Parallel()

	t.Run("fans out by hash prefix", func(t *testing.T) {
		t.Parallel()
		key := ContentKey("abcdef0123456789", "png")
		require.Equal(t, "ab/cd/abcdef0123456789.png", key)
	})

	t.Run("no extension", func(t *testing.T) {
		t.Parallel()
		key := ContentKey("abcdef0123456789", "")
		require.Equal(t, "ab/cd/abcdef0123456789", key)
	})

	t.Run("degenerate hash stored flat", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "ab.bin", ContentKey("ab", "bin"))
	})

	t.Run("identical content yields identical keys", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, ContentKey("ffee0011", "jpg"), ContentKey("ffee0011", "jpg"))
	})
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateKey("ab/cd/hash.png"))
	require.ErrorIs(t, validateKey(""), ErrInvalidKey)
	require.ErrorIs(t, validateKey("/absolute"), ErrInvalidKey)
	require.ErrorIs(t, validateKey("a/../b"), ErrInvalidKey)
}

func TestS3Config_validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     S3Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     S3Config{Bucket: "b", AccessKey: "a", SecretKey: "s"},
			wantErr: false,
		},
		{
			name:    "missing bucket",
			cfg:     S3Config{AccessKey: "a", SecretKey: "s"},
			wantErr: true,
		},
		{
			name:    "missing access key",
			cfg:     S3Config{Bucket: "b", SecretKey: "s"},
			wantErr: true,
		},
		{
			name:    "missing secret key",
			cfg:     S3Config{Bucket: "b", AccessKey: "a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestS3Storage_publicURL(t *testing.T) {
	t.Parallel()

	t.Run("default amazon url", func(t *testing.T) {
		t.Parallel()
		s := &S3Storage{cfg: S3Config{Bucket: "uploads", Region: "us-east-1"}}
		require.Equal(t, "https://uploads.s3.us-east-1.amazonaws.com/ab/cd/x.png", s.publicURL("ab/cd/x.png"))
	})

	t.Run("cdn prefix wins", func(t *testing.T) {
		t.Parallel()
		s := &S3Storage{cfg: S3Config{Bucket: "uploads", PublicURL: "https://cdn.example.com/"}}
		require.Equal(t, "https://cdn.example.com/ab/cd/x.png", s.publicURL("ab/cd/x.png"))
	})

	t.Run("path style endpoint", func(t *testing.T) {
		t.Parallel()
		s := &S3Storage{cfg: S3Config{Bucket: "uploads", Endpoint: "http://localhost:9000", PathStyle: true}}
		require.Equal(t, "http://localhost:9000/uploads/ab/cd/x.png", s.publicURL("ab/cd/x.png"))
	})
}
