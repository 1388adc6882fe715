package propgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with propgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, properties int, hashSet, postingList time.Duration) {
	l.InfoContext(ctx, "indexes built",
		"properties", properties,
		"hashset_build", hashSet,
		"postinglist_build", postingList,
	)
}

// LogQuery logs a query evaluation across both index paths.
func (l *Logger) LogQuery(ctx context.Context, predicates, results int, hashSet, postingList time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"predicates", predicates,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"predicates", predicates,
			"results", results,
			"hashset_elapsed", hashSet,
			"postinglist_elapsed", postingList,
		)
	}
}
