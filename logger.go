package texview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package-wide logger. Accessed atomically so that
// SetLogger can be called while a render goroutine is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for texview and its backends.
// By default, texview produces no log output.
//
// Pass nil to restore the default silent behavior. Views created with
// WithLogger keep their own logger and are not affected.
//
// Log levels used by texview:
//   - [slog.LevelDebug]: per-frame diagnostics (skipped frames, projection updates)
//   - [slog.LevelInfo]: lifecycle events (pipeline built, surface configured)
//   - [slog.LevelWarn]: non-fatal issues (surface outdated, resource release errors)
//
// Example:
//
//	texview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger.
// Backend packages (backend/halgpu) call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
