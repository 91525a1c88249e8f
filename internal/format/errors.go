package format

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when the file does not start with the index magic.
	ErrInvalidMagic = errors.New("format: invalid magic number")
	// ErrVersionMismatch is returned for an unsupported format version.
	ErrVersionMismatch = errors.New("format: unsupported version")
	// ErrChecksumMismatch is returned when a stored checksum does not match.
	ErrChecksumMismatch = errors.New("format: checksum mismatch")
	// ErrCorrupt is returned when metadata is structurally inconsistent.
	ErrCorrupt = errors.New("format: corrupt index")
)

// VersionError reports the version found in a file.
type VersionError struct {
	Found     uint32
	Supported uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("format: unsupported version %d (supported: %d)", e.Found, e.Supported)
}

func (e *VersionError) Unwrap() error { return ErrVersionMismatch }

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
