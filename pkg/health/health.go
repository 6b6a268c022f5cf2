// Package health provides liveness and readiness probe handlers for
// the upload service: process liveness always answers OK, readiness
// aggregates named dependency checks (database, redis, storage) run in
// parallel under a shared timeout.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 5 * time.Second

// Check probes one dependency. A nil return means ready.
type Check func(ctx context.Context) error

// Checks maps dependency names to their probes.
type Checks map[string]Check

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Option configures probe behavior.
type Option func(*probeConfig)

type probeConfig struct {
	timeout time.Duration
	log     *slog.Logger
}

// WithTimeout bounds the whole readiness run.
func WithTimeout(d time.Duration) Option {
	return func(c *probeConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failed checks.
func WithLogger(log *slog.Logger) Option {
	return func(c *probeConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Liveness answers 200 unconditionally; it only proves the process is
// serving requests.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeReport(w, http.StatusOK, report{Status: "ok"})
	}
}

// Readiness runs all checks in parallel and answers 200 when every
// dependency is reachable, 503 otherwise, with per-check detail.
func Readiness(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := probeConfig{timeout: defaultTimeout, log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), cfg.timeout)
		defer cancel()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[string]string, len(checks))
			failed  bool
		)
		for name, check := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				status := "ok"
				if err := check(ctx); err != nil {
					status = err.Error()
					cfg.log.Warn("readiness check failed",
						slog.String("check", name), slog.Any("error", err))
					mu.Lock()
					failed = true
					mu.Unlock()
				}
				mu.Lock()
				results[name] = status
				mu.Unlock()
			}()
		}
		wg.Wait()

		rep := report{Status: "ok", Checks: results}
		code := http.StatusOK
		if failed {
			rep.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		writeReport(w, code, rep)
	}
}

func writeReport(w http.ResponseWriter, code int, rep report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(rep)
}
