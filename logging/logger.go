// Package logging holds the *slog.Logger shared by presskit packages.
//
// Nothing is logged until a logger is installed:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package logging

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

var discard = slog.New(slog.DiscardHandler)

// SetLogger installs the package-level logger. Passing nil restores the
// discarding default. SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the installed logger, or a logger that drops everything.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}
