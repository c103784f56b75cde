package pixelgrid

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for pixelgrid and its sub-packages.
// By default pixelgrid produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: GPU resource creation, buffer sizes, per-frame detail
//   - [slog.LevelInfo]: adapter selection, window open/close
//   - [slog.LevelWarn]: non-fatal teardown problems
//
// Example:
//
//	pixelgrid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages such as pixelgrid/sdl
// log through it so they share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
