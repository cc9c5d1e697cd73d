// Package log provides structured logging for the theremin.
// It wraps slog with a process-wide logger configured once at startup.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init initializes the global logger with the specified level, writing to
// stderr. Only the first call to Init or InitTo has any effect.
func Init(level string) {
	InitTo(os.Stderr, level)
}

// InitTo is Init with an explicit destination, for when stderr belongs to a
// full-screen terminal UI.
func InitTo(w io.Writer, level string) {
	once.Do(func() {
		logger = newLogger(w, ParseLevel(level), os.Getenv("GO_ENV") == "production")
		slog.SetDefault(logger)
	})
}

func newLogger(w io.Writer, lvl slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// L returns the global logger, initializing it at info level if Init was
// never called.
func L() *slog.Logger {
	Init("info")
	return logger
}

// Component returns a logger tagged with the component name.
func Component(name string) *slog.Logger {
	return L().With("component", name)
}
