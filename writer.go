package simgo

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/hupe1980/simgo/internal/bucket"
	"github.com/hupe1980/simgo/internal/format"
	"github.com/hupe1980/simgo/internal/fs"
	"github.com/hupe1980/simgo/internal/resource"
	"github.com/hupe1980/simgo/internal/search"
	"github.com/hupe1980/simgo/measure"
	"github.com/hupe1980/simgo/ngram"
)

type writerState int

const (
	writerBuilding writerState = iota
	writerFinalized
	writerClosed
)

// Writer builds an index. Records are collected in memory and written to
// the target path by Finalize; until then the path is untouched.
//
// A Writer is safe for concurrent use, but inserts are serialized.
type Writer struct {
	mu      sync.Mutex
	state   writerState
	path    string
	tmpPath string
	file    fs.File
	gen     *ngram.Generator
	mem     *bucket.Memory
	opts    options
}

// Create starts a new index at path. The index is built in a uniquely named
// temporary sibling file that replaces path only when Finalize succeeds, so
// an existing index at path stays readable until then. Concurrent writers on
// one path each finalize a complete file; the last rename wins.
func Create(path string, optFns ...Option) (*Writer, error) {
	o := applyOptions(optFns)
	if err := o.validateBuild(); err != nil {
		return nil, err
	}

	gen, err := ngram.New(o.n, o.padding, o.unit)
	if err != nil {
		return nil, translateError(err)
	}

	if err := o.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	file, tmpPath, err := fs.CreateTemp(o.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	o.logger.LogCreate(context.Background(), path, o.n, o.padding, o.unit)

	return &Writer{
		path:    path,
		tmpPath: tmpPath,
		file:    file,
		gen:     gen,
		mem:     bucket.NewMemory(),
		opts:    o,
	}, nil
}

// Insert adds s to the index. Duplicates are kept as separate records.
func (w *Writer) Insert(s string) error {
	start := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	if w.state != writerBuilding {
		err = ErrWriterClosed
	} else {
		w.mem.Insert(s, w.gen.Generate(s).Features())
	}

	w.opts.metricsCollector.RecordInsert(time.Since(start), err)
	if err != nil {
		w.opts.logger.Error("insert failed", "path", w.path, "error", err)
	}
	return err
}

// Len returns the number of inserted records.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mem.Len()
}

// Retrieve queries the records inserted so far. It returns the same
// results a Reader returns for the finalized index.
func (w *Writer) Retrieve(ctx context.Context, query string, m Measure, threshold float64) ([]string, error) {
	if err := validateQuery(m, threshold); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerBuilding {
		return nil, ErrWriterClosed
	}

	res, _, err := search.Retrieve(ctx, w.mem, search.Query{
		Features:  w.gen.Generate(query).Features(),
		Measure:   m,
		Threshold: threshold,
	})
	return res, translateError(err)
}

// Finalize writes the index and atomically moves it to its path. After
// Finalize the Writer accepts no further inserts, whether or not it
// succeeded; a failed Finalize leaves nothing at the target path.
func (w *Writer) Finalize(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerBuilding {
		return ErrWriterClosed
	}
	w.state = writerFinalized

	start := time.Now()
	h, size, err := w.finalize(ctx)
	if err != nil {
		w.abort()
		err = fmt.Errorf("%w: %w", ErrStorageWriteFailure, err)
	}

	var buckets int
	if h != nil {
		buckets = int(h.Buckets)
	}
	w.opts.metricsCollector.RecordFinalize(w.mem.Len(), size, time.Since(start), err)
	w.opts.logger.LogFinalize(ctx, w.path, w.mem.Len(), buckets, size, time.Since(start), err)

	// Release the build state.
	w.mem = bucket.NewMemory()
	return err
}

func (w *Writer) finalize(ctx context.Context) (*format.Header, int64, error) {
	rc := w.opts.resourceController()

	fw, err := format.NewWriter(w.file, format.Header{
		N:           uint32(w.opts.n),
		Padding:     w.opts.padding,
		Unit:        uint8(w.opts.unit),
		Compression: uint8(w.opts.compression),
	}, format.WithBodyWriter(func(body io.Writer) io.Writer {
		return resource.NewRateLimitedWriter(ctx, body, rc)
	}))
	if err != nil {
		return nil, 0, err
	}

	for _, b := range w.mem.Buckets() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		b.Optimize()
		if err := fw.WriteBucket(b); err != nil {
			return nil, 0, err
		}
	}

	h, size, err := fw.Finish()
	if err != nil {
		return nil, 0, err
	}
	if err := w.file.Sync(); err != nil {
		return nil, 0, err
	}

	file := w.file
	w.file = nil
	if err := file.Close(); err != nil {
		return nil, 0, err
	}
	if err := w.opts.fs.Rename(w.tmpPath, w.path); err != nil {
		return nil, 0, err
	}
	return h, size, nil
}

// abort drops the temporary file.
func (w *Writer) abort() {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	_ = w.opts.fs.Remove(w.tmpPath)
}

// Close abandons an unfinalized build and releases its resources. After
// Finalize it is a no-op. Close is idempotent.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == writerBuilding {
		w.abort()
		w.mem = bucket.NewMemory()
	}
	w.state = writerClosed
	return nil
}

func validateQuery(m Measure, threshold float64) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMeasure, m)
	}
	if err := ValidateThreshold(threshold); err != nil {
		return err
	}
	return nil
}

// ValidateThreshold reports ErrInvalidThreshold unless 0 < t <= 1.
func ValidateThreshold(t float64) error {
	return translateError(measure.ValidateThreshold(t))
}
