package vectors

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled reports false so callers skip
// formatting altogether.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by this module and all its sub-packages.
// By default nothing is logged. Passing nil restores the silent default.
// SetLogger may be called concurrently with rendering.
//
// Levels in use:
//   - [slog.LevelDebug]: buffer (re)allocation, bind group rebuilds, per-frame summaries
//   - [slog.LevelInfo]: engine and pipeline creation
//   - [slog.LevelWarn]: frees of resources the engine doesn't know about
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this instead of
// holding on to a logger so that SetLogger takes effect immediately.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
