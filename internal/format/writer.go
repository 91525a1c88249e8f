package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/simgo/internal/bucket"
	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/internal/hash"
)

// ErrWriterFinished is returned when writing after Finish.
var ErrWriterFinished = errors.New("format: writer finished")

// Writer streams bucket blocks to an index file. The header is reserved up
// front and written by Finish once the directory is known.
type Writer struct {
	ws      io.WriteSeeker
	body    io.Writer
	header  Header
	entries []Entry
	off     uint64
	done    bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithBodyWriter wraps the writer used for bucket blocks and the
// directory, e.g. to apply a rate limit.
func WithBodyWriter(wrap func(io.Writer) io.Writer) WriterOption {
	return func(w *Writer) {
		w.body = wrap(w.body)
	}
}

// NewWriter reserves the header and returns a writer positioned at the
// first bucket block. Only N, Padding, Unit and Compression of h are used.
func NewWriter(ws io.WriteSeeker, h Header, opts ...WriterOption) (*Writer, error) {
	if !compress.Type(h.Compression).Valid() {
		return nil, fmt.Errorf("%w: %d", compress.ErrUnknownType, h.Compression)
	}

	w := &Writer{
		ws:   ws,
		body: ws,
		header: Header{
			Version:     Version,
			N:           h.N,
			Padding:     h.Padding,
			Unit:        h.Unit,
			Compression: h.Compression,
		},
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := ws.Write(make([]byte, HeaderSize)); err != nil {
		return nil, err
	}
	w.off = HeaderSize
	return w, nil
}

// WriteBucket compresses and appends one bucket. Buckets must be written
// in ascending size order.
func (w *Writer) WriteBucket(b *bucket.Bucket) error {
	if w.done {
		return ErrWriterFinished
	}
	if b.Len() == 0 {
		return nil
	}
	if n := len(w.entries); n > 0 && uint64(b.Size) <= w.entries[n-1].Size {
		return fmt.Errorf("format: bucket %d written out of order", b.Size)
	}

	payload, err := EncodeBucket(b)
	if err != nil {
		return err
	}
	block, err := compress.Encode(payload, compress.Type(w.header.Compression))
	if err != nil {
		return err
	}
	if _, err := w.body.Write(block); err != nil {
		return err
	}

	w.entries = append(w.entries, Entry{
		Size:     uint64(b.Size),
		Records:  uint64(b.Len()),
		Offset:   w.off,
		Length:   uint64(len(block)),
		Checksum: hash.CRC32C(block),
	})
	w.off += uint64(len(block))
	w.header.Records += uint64(b.Len())
	return nil
}

// Finish writes the directory and the header. It returns the final header
// and the total file size. The caller syncs and closes the file.
func (w *Writer) Finish() (*Header, int64, error) {
	if w.done {
		return nil, 0, ErrWriterFinished
	}
	w.done = true

	dir := EncodeDirectory(w.entries)
	if _, err := w.body.Write(dir); err != nil {
		return nil, 0, err
	}

	w.header.Buckets = uint32(len(w.entries))
	w.header.DirOffset = w.off
	w.header.DirLength = uint64(len(dir))
	w.header.DirChecksum = hash.CRC32C(dir)
	total := int64(w.off) + int64(len(dir))

	if _, err := w.ws.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	if _, err := w.ws.Write(w.header.Encode()); err != nil {
		return nil, 0, err
	}
	if _, err := w.ws.Seek(total, io.SeekStart); err != nil {
		return nil, 0, err
	}

	h := w.header
	return &h, total, nil
}
