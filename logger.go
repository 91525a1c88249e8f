package simgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with simgo-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath adds the index path or blob name to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithMeasure adds the measure and threshold fields to the logger.
func (l *Logger) WithMeasure(m Measure, threshold float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("measure", m.String(), "threshold", threshold),
	}
}

// LogCreate logs the start of an index build.
func (l *Logger) LogCreate(ctx context.Context, path string, n int, padding bool, unit Unit) {
	l.DebugContext(ctx, "index build started",
		"path", path,
		"n", n,
		"padding", padding,
		"unit", unit.String(),
	)
}

// LogFinalize logs the result of finalizing an index.
func (l *Logger) LogFinalize(ctx context.Context, path string, records, buckets int, bytes int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index finalize failed",
			"path", path,
			"records", records,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "index finalized",
		"path", path,
		"records", records,
		"buckets", buckets,
		"bytes", bytes,
		"duration", d,
	)
}

// LogOpen logs opening an index for reading.
func (l *Logger) LogOpen(ctx context.Context, name string, info Info, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index open failed",
			"path", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "index opened",
		"path", name,
		"version", info.Version,
		"records", info.Records,
		"buckets", len(info.BucketSizes),
	)
}

// LogRetrieve logs a retrieve or check operation.
func (l *Logger) LogRetrieve(ctx context.Context, m Measure, threshold float64, results, bucketsScanned int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "retrieve failed",
			"measure", m.String(),
			"threshold", threshold,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "retrieve completed",
		"measure", m.String(),
		"threshold", threshold,
		"results", results,
		"buckets_scanned", bucketsScanned,
	)
}

// LogBucketLoad logs loading a bucket block from storage.
func (l *Logger) LogBucketLoad(ctx context.Context, size int, bytes int64, cached bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bucket load failed",
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "bucket loaded",
		"size", size,
		"bytes", bytes,
		"cached", cached,
	)
}
