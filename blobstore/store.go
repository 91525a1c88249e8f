package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable index files.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put stores size bytes read from r under name, replacing any existing
	// blob. Readers never observe a partially written blob.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes
	// are available.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// ReadRange returns exactly n bytes of b starting at off. Mappable blobs
// are sliced without copying.
func ReadRange(ctx context.Context, b Blob, off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off > b.Size() || n > b.Size()-off {
		return nil, fmt.Errorf("blobstore: range [%d,+%d) outside blob of %d bytes: %w", off, n, b.Size(), io.ErrUnexpectedEOF)
	}

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return data[off : off+n : off+n], nil
	}

	buf := make([]byte, n)
	read, err := b.ReadAt(ctx, buf, off)
	if err != nil && !(errors.Is(err, io.EOF) && int64(read) == n) {
		return nil, err
	}
	if int64(read) != n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}
