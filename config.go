package simgo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/ngram"
)

// Config is the file form of the options. Zero values keep the defaults.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Reader  ReaderConfig  `yaml:"reader"`
	Logging LoggingConfig `yaml:"logging"`
}

// BuildConfig holds the parameters of a new index.
type BuildConfig struct {
	NgramSize          int    `yaml:"ngramSize"`
	Padding            bool   `yaml:"padding"`
	Unit               string `yaml:"unit"`
	Compression        string `yaml:"compression"`
	IOLimitBytesPerSec int64  `yaml:"ioLimitBytesPerSec"`
}

// ReaderConfig holds the cache and concurrency limits of a Reader.
type ReaderConfig struct {
	CacheBytes           int64 `yaml:"cacheBytes"`
	MemoryLimitBytes     int64 `yaml:"memoryLimitBytes"`
	MaxConcurrentQueries int   `yaml:"maxConcurrentQueries"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration equivalent to no options.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			NgramSize:   DefaultNgramSize,
			Unit:        ngram.Byte.String(),
			Compression: compress.LZ4.String(),
		},
		Reader: ReaderConfig{
			CacheBytes:           DefaultCacheBytes,
			MaxConcurrentQueries: 4,
		},
	}
}

// LoadConfig reads a YAML config file. Missing values keep their defaults;
// unknown keys and invalid values are reported as ErrInvalidConfiguration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML document into a Config.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing config: %w", ErrInvalidConfiguration, err)
	}

	if _, err := cfg.Options(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the configuration into options for Create, Open and
// OpenBlob.
func (c *Config) Options() ([]Option, error) {
	unit, err := ngram.ParseUnit(c.Build.Unit)
	if err != nil {
		return nil, translateError(err)
	}
	comp, err := compress.ParseType(c.Build.Compression)
	if err != nil {
		return nil, translateError(err)
	}

	opts := []Option{
		WithNgramSize(c.Build.NgramSize),
		WithPadding(c.Build.Padding),
		WithUnit(unit),
		WithCompression(comp),
		WithIOLimit(c.Build.IOLimitBytesPerSec),
		WithCacheBytes(c.Reader.CacheBytes),
		WithMemoryLimit(c.Reader.MemoryLimitBytes),
		WithMaxConcurrentQueries(c.Reader.MaxConcurrentQueries),
	}

	logger, err := c.Logging.logger()
	if err != nil {
		return nil, err
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}

	o := applyOptions(opts)
	if err := o.validateBuild(); err != nil {
		return nil, err
	}
	if err := o.validateRead(); err != nil {
		return nil, err
	}
	return opts, nil
}

// logger returns nil when logging is not configured.
func (l LoggingConfig) logger() (*Logger, error) {
	if l.Level == "" && l.Format == "" {
		return nil, nil
	}

	var level slog.Level
	if l.Level != "" {
		if err := level.UnmarshalText([]byte(l.Level)); err != nil {
			return nil, fmt.Errorf("%w: log level %q", ErrInvalidConfiguration, l.Level)
		}
	}

	switch strings.ToLower(l.Format) {
	case "", "text":
		return NewTextLogger(level), nil
	case "json":
		return NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", ErrInvalidConfiguration, l.Format)
	}
}
