// Package logger builds the slog loggers used across uploadkit.
// Output is JSON on stdout; with a Sentry DSN configured, warnings and
// errors are mirrored to Sentry as logs and issues.
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level written to stdout.
	Level slog.Level `env:"LOG_LEVEL" envDefault:"0"`

	// SentryDSN enables Sentry forwarding when non-empty.
	SentryDSN string `env:"SENTRY_DSN"`

	// Environment tags Sentry events (production, staging, ...).
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON logger per cfg. Without a Sentry DSN it logs to
// stdout only; Sentry initialization failures degrade to stdout rather
// than failing startup.
func New(cfg Config) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})

	if cfg.SentryDSN == "" {
		return slog.New(stdout)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		log := slog.New(stdout)
		log.Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return log
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(fanout{stdout, sentryHandler})
}

// Nop returns a logger that discards everything. Used as the default
// when a component is constructed without a logger.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fanout delivers every record to all wrapped handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
