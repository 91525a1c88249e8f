package simgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/simgo/blobstore"
	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/internal/format"
	"github.com/hupe1980/simgo/measure"
	"github.com/hupe1980/simgo/ngram"
)

var (
	// ErrInvalidConfiguration is returned for bad build or reader parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrStorageUnavailable is returned when the target cannot be created or opened.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageWriteFailure is returned when persisting an index fails.
	ErrStorageWriteFailure = errors.New("storage write failure")

	// ErrStorageReadFailure is returned when reading a bucket fails.
	ErrStorageReadFailure = errors.New("storage read failure")

	// ErrNotFound is returned when an index does not exist.
	ErrNotFound = errors.New("index not found")

	// ErrCorruptIndex is returned when an index does not match its own metadata.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrVersionMismatch is returned for an unsupported format version.
	ErrVersionMismatch = errors.New("index version mismatch")

	// ErrInvalidMeasure is returned for an unknown similarity measure.
	ErrInvalidMeasure = errors.New("invalid measure")

	// ErrInvalidThreshold is returned for a threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrUnsupportedForEncoding is returned by Check on rune-unit indexes.
	ErrUnsupportedForEncoding = errors.New("operation unsupported for index encoding")

	// ErrWriterClosed is returned when using a finalized or closed Writer.
	ErrWriterClosed = errors.New("writer is closed")

	// ErrReaderClosed is returned when using a closed Reader.
	ErrReaderClosed = errors.New("reader is closed")
)

// VersionError reports the format version found in an index file.
//
// It matches ErrVersionMismatch with errors.Is; the original underlying
// error can be accessed via errors.Unwrap.
type VersionError struct {
	Found     uint32
	Supported uint32
	cause     error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("index version mismatch: found %d, supported %d", e.Found, e.Supported)
}

func (e *VersionError) Is(target error) bool { return target == ErrVersionMismatch }

func (e *VersionError) Unwrap() error { return e.cause }

var sentinels = []error{
	ErrInvalidConfiguration,
	ErrStorageUnavailable,
	ErrStorageWriteFailure,
	ErrStorageReadFailure,
	ErrNotFound,
	ErrCorruptIndex,
	ErrVersionMismatch,
	ErrInvalidMeasure,
	ErrInvalidThreshold,
	ErrUnsupportedForEncoding,
	ErrWriterClosed,
	ErrReaderClosed,
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}

	var ve *format.VersionError
	if errors.As(err, &ve) {
		return &VersionError{Found: ve.Found, Supported: ve.Supported, cause: err}
	}

	// Index integrity.
	if errors.Is(err, format.ErrInvalidMagic) ||
		errors.Is(err, format.ErrChecksumMismatch) ||
		errors.Is(err, format.ErrCorrupt) ||
		errors.Is(err, compress.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Argument normalization.
	if errors.Is(err, measure.ErrUnknownMeasure) {
		return fmt.Errorf("%w: %w", ErrInvalidMeasure, err)
	}
	if errors.Is(err, measure.ErrInvalidThreshold) {
		return fmt.Errorf("%w: %w", ErrInvalidThreshold, err)
	}
	if errors.Is(err, ngram.ErrInvalidSize) ||
		errors.Is(err, ngram.ErrInvalidUnit) ||
		errors.Is(err, compress.ErrUnknownType) {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return err
}
