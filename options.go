package simgo

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/simgo/internal/fs"
	"github.com/hupe1980/simgo/internal/resource"
)

const (
	// DefaultNgramSize is the n-gram length used when none is configured.
	DefaultNgramSize = 3
	// DefaultCacheBytes bounds the decoded buckets a Reader keeps in memory.
	DefaultCacheBytes = 64 << 20
)

type options struct {
	n                    int
	padding              bool
	unit                 Unit
	compression          Compression
	cacheBytes           int64
	memoryLimit          int64
	ioLimit              int64
	maxConcurrentQueries int64
	metricsCollector     MetricsCollector
	logger               *Logger
	fs                   fs.FileSystem
}

// Option configures Create, Open and OpenBlob.
//
// Build options (n-gram size, padding, unit, compression) only apply to
// Create; a Reader takes them from the index header.
type Option func(*options)

// WithNgramSize sets the n-gram length N. N must be at least 1.
func WithNgramSize(n int) Option {
	return func(o *options) {
		o.n = n
	}
}

// WithPadding enables begin and end markers, so strings shorter than N
// still produce n-grams that carry prefix and suffix context.
func WithPadding(enabled bool) Option {
	return func(o *options) {
		o.padding = enabled
	}
}

// WithUnit selects byte or code point slicing.
func WithUnit(u Unit) Option {
	return func(o *options) {
		o.unit = u
	}
}

// WithCompression selects the bucket block compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCacheBytes bounds the decoded-bucket cache of a Reader.
// Zero disables caching.
func WithCacheBytes(n int64) Option {
	return func(o *options) {
		o.cacheBytes = n
	}
}

// WithMemoryLimit sets a hard memory limit shared by every cache the
// Reader owns. Zero means no limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit limits the write throughput of Finalize in bytes per second.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMaxConcurrentQueries bounds the queries RetrieveBatch runs in parallel.
func WithMaxConcurrentQueries(n int) Option {
	return func(o *options) {
		o.maxConcurrentQueries = int64(n)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &simgo.BasicMetricsCollector{}
//	r, _ := simgo.Open("names.sim", simgo.WithMetricsCollector(metrics))
//	// ... use r ...
//	stats := metrics.GetStats()
//	fmt.Printf("Retrieves: %d, Avg latency: %dns\n", stats.RetrieveCount, stats.RetrieveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := simgo.NewJSONLogger(slog.LevelInfo)
//	w, _ := simgo.Create("names.sim", simgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// withFileSystem replaces the file system used by the writer.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		n:                    DefaultNgramSize,
		unit:                 ByteUnit,
		compression:          CompressionLZ4,
		cacheBytes:           DefaultCacheBytes,
		maxConcurrentQueries: 4,
		metricsCollector:     NoopMetricsCollector{},
		logger:               NoopLogger(),
		fs:                   fs.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validateBuild() error {
	if o.n < 1 {
		return fmt.Errorf("%w: n-gram size %d must be at least 1", ErrInvalidConfiguration, o.n)
	}
	if !o.unit.Valid() {
		return fmt.Errorf("%w: unknown unit %d", ErrInvalidConfiguration, o.unit)
	}
	if !o.compression.Valid() {
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidConfiguration, o.compression)
	}
	if o.ioLimit < 0 {
		return fmt.Errorf("%w: negative io limit", ErrInvalidConfiguration)
	}
	return nil
}

func (o *options) validateRead() error {
	if o.cacheBytes < 0 || o.memoryLimit < 0 {
		return fmt.Errorf("%w: negative cache or memory limit", ErrInvalidConfiguration)
	}
	if o.maxConcurrentQueries < 1 {
		return fmt.Errorf("%w: max concurrent queries must be at least 1", ErrInvalidConfiguration)
	}
	return nil
}

func (o *options) resourceController() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:     o.memoryLimit,
		MaxConcurrentQueries: o.maxConcurrentQueries,
		IOLimitBytesPerSec:   o.ioLimit,
	})
}
