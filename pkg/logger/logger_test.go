package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("stdout only without dsn", func(t *testing.T) {
		t.Parallel()
		log := logger.New(logger.Config{})
		require.NotNil(t, log)
		require.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("level filters debug", func(t *testing.T) {
		t.Parallel()
		log := logger.New(logger.Config{Level: slog.LevelWarn})
		require.False(t, log.Enabled(context.Background(), slog.LevelInfo))
		require.True(t, log.Enabled(context.Background(), slog.LevelError))
	})
}

func TestNop(t *testing.T) {
	t.Parallel()

	log := logger.Nop()
	require.NotNil(t, log)
	require.False(t, log.Enabled(context.Background(), slog.LevelError))

	// Must not panic.
	log.Error("discarded", slog.String("k", "v"))
}
