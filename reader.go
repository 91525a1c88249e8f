package simgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/simgo/blobstore"
	"github.com/hupe1980/simgo/internal/bucket"
	"github.com/hupe1980/simgo/internal/cache"
	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/internal/format"
	"github.com/hupe1980/simgo/internal/hash"
	"github.com/hupe1980/simgo/internal/resource"
	"github.com/hupe1980/simgo/internal/search"
	"github.com/hupe1980/simgo/ngram"
)

// Reader answers queries against a finalized index. Only the header and
// the bucket directory are read when opening; bucket blocks are loaded on
// first use and kept in a bounded cache.
//
// A Reader is safe for concurrent use.
type Reader struct {
	mu     sync.RWMutex
	closed bool

	name    string
	blob    blobstore.Blob
	header  *format.Header
	entries map[int]format.Entry
	sizes   []int
	gen     *ngram.Generator

	cache *cache.LRU[int, *bucket.Bucket]
	loads singleflight.Group
	rc    *resource.Controller
	opts  options
}

// Open opens the index file at path.
func Open(path string, optFns ...Option) (*Reader, error) {
	store := blobstore.NewLocalStore(filepath.Dir(path))
	return OpenBlob(context.Background(), store, filepath.Base(path), optFns...)
}

// OpenBlob opens the index stored as name in store.
func OpenBlob(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Reader, error) {
	o := applyOptions(optFns)
	if err := o.validateRead(); err != nil {
		return nil, err
	}

	r, err := openReader(ctx, store, name, o)
	if err != nil {
		o.logger.LogOpen(ctx, name, Info{}, err)
		return nil, err
	}
	o.logger.LogOpen(ctx, name, r.Info(), nil)
	return r, nil
}

func openReader(ctx context.Context, store blobstore.BlobStore, name string, o options) (*Reader, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, translateError(err)
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	r := &Reader{
		name: name,
		blob: blob,
		rc:   o.resourceController(),
		opts: o,
	}
	if err := r.load(ctx); err != nil {
		_ = blob.Close()
		return nil, err
	}

	r.cache = cache.NewLRU[int, *bucket.Bucket](o.cacheBytes, r.rc)
	r.cache.OnEvict(func(size int, cost int64) {
		o.logger.Debug("bucket evicted", "path", name, "size", size, "bytes", cost)
	})
	return r, nil
}

// load reads and validates the header and the directory.
func (r *Reader) load(ctx context.Context) error {
	size := r.blob.Size()
	if size < format.HeaderSize {
		return fmt.Errorf("%w: file of %d bytes has no header", ErrCorruptIndex, size)
	}

	buf, err := blobstore.ReadRange(ctx, r.blob, 0, format.HeaderSize)
	if err != nil {
		return readError("header", err)
	}
	h, err := format.DecodeHeader(buf)
	if err != nil {
		return translateError(err)
	}
	if h.DirOffset > uint64(size) || h.DirLength != uint64(size)-h.DirOffset {
		return fmt.Errorf("%w: directory [%d,+%d) does not end the %d byte file", ErrCorruptIndex, h.DirOffset, h.DirLength, size)
	}

	dir, err := blobstore.ReadRange(ctx, r.blob, int64(h.DirOffset), int64(h.DirLength))
	if err != nil {
		return readError("directory", err)
	}
	if err := format.VerifyDirectory(h, dir); err != nil {
		return translateError(err)
	}
	entries, err := format.DecodeDirectory(dir)
	if err != nil {
		return translateError(err)
	}
	if err := format.ValidateDirectory(h, entries); err != nil {
		return translateError(err)
	}

	gen, err := ngram.New(int(h.N), h.Padding, ngram.Unit(h.Unit))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}

	r.header = h
	r.gen = gen
	r.entries = make(map[int]format.Entry, len(entries))
	r.sizes = make([]int, 0, len(entries))
	for _, e := range entries {
		r.entries[int(e.Size)] = e
		r.sizes = append(r.sizes, int(e.Size))
	}
	return nil
}

func readError(what string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s: %w", ErrCorruptIndex, what, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageReadFailure, what, err)
}

// Info describes the open index.
func (r *Reader) Info() Info {
	return Info{
		Version:     r.header.Version,
		N:           int(r.header.N),
		Padding:     r.header.Padding,
		Unit:        Unit(r.header.Unit),
		Compression: Compression(r.header.Compression),
		Records:     int(r.header.Records),
		BucketSizes: slices.Clone(r.sizes),
	}
}

// Retrieve returns every record whose similarity to query under m is at
// least threshold. Records inserted more than once are returned once per
// insertion. The order is by bucket size, then insertion order.
func (r *Reader) Retrieve(ctx context.Context, query string, m Measure, threshold float64) ([]string, error) {
	start := time.Now()
	res, st, err := r.retrieve(ctx, query, m, threshold)

	r.opts.metricsCollector.RecordRetrieve(m, len(res), st.BucketsScanned, time.Since(start), err)
	r.opts.logger.LogRetrieve(ctx, m, threshold, len(res), st.BucketsScanned, err)
	return res, err
}

func (r *Reader) retrieve(ctx context.Context, query string, m Measure, threshold float64) ([]string, search.Stats, error) {
	if err := validateQuery(m, threshold); err != nil {
		return nil, search.Stats{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, search.Stats{}, ErrReaderClosed
	}

	res, st, err := search.Retrieve(ctx, r.source(), r.query(query, m, threshold))
	if err != nil {
		return nil, st, translateError(err)
	}
	return res, st, nil
}

// RetrieveBatch runs Retrieve for every query in parallel, bounded by
// WithMaxConcurrentQueries. Results are in query order. The first error
// cancels the batch and no partial results are returned.
func (r *Reader) RetrieveBatch(ctx context.Context, queries []string, m Measure, threshold float64) ([][]string, error) {
	if err := validateQuery(m, threshold); err != nil {
		return nil, err
	}

	results := make([][]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			if err := r.rc.AcquireQuery(gctx); err != nil {
				return err
			}
			defer r.rc.ReleaseQuery()

			res, err := r.Retrieve(gctx, q, m, threshold)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Check reports whether at least one record matches. It stops at the
// first verified match.
//
// Check is only defined for byte-unit indexes and returns
// ErrUnsupportedForEncoding for rune-unit indexes; use Retrieve there.
func (r *Reader) Check(ctx context.Context, query string, m Measure, threshold float64) (bool, error) {
	start := time.Now()
	found, err := r.check(ctx, query, m, threshold)

	r.opts.metricsCollector.RecordCheck(found, time.Since(start), err)
	if err != nil {
		r.opts.logger.ErrorContext(ctx, "check failed", "path", r.name, "error", err)
	}
	return found, err
}

func (r *Reader) check(ctx context.Context, query string, m Measure, threshold float64) (bool, error) {
	if err := validateQuery(m, threshold); err != nil {
		return false, err
	}
	if r.gen.Unit() != ngram.Byte {
		return false, fmt.Errorf("%w: check on a %s-unit index", ErrUnsupportedForEncoding, r.gen.Unit())
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false, ErrReaderClosed
	}

	found, _, err := search.Exists(ctx, r.source(), r.query(query, m, threshold))
	if err != nil {
		return false, translateError(err)
	}
	return found, nil
}

func (r *Reader) query(query string, m Measure, threshold float64) search.Query {
	return search.Query{
		Features:  r.gen.Generate(query).Features(),
		Measure:   m,
		Threshold: threshold,
	}
}

// Close releases the index. Queries in flight finish first. Close is
// idempotent.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.cache.Purge()
	return r.blob.Close()
}

func (r *Reader) source() bucket.Source {
	return readerSource{r}
}

// readerSource serves buckets to the search. Callers hold r.mu.
type readerSource struct {
	r *Reader
}

func (s readerSource) Sizes() []int { return s.r.sizes }

func (s readerSource) Bucket(ctx context.Context, size int) (*bucket.Bucket, error) {
	r := s.r
	e, ok := r.entries[size]
	if !ok {
		return nil, nil
	}

	if b, ok := r.cache.Get(size); ok {
		r.opts.metricsCollector.RecordBucketLoad(int64(e.Length), true, 0, nil)
		return b, nil
	}

	for {
		b, err := s.load(ctx, size, e)
		// A shared load fails with the context error of the goroutine that
		// started it; callers whose own context is live load again.
		if err != nil && isContextError(err) && ctx.Err() == nil {
			continue
		}
		return b, err
	}
}

func (s readerSource) load(ctx context.Context, size int, e format.Entry) (*bucket.Bucket, error) {
	r := s.r
	v, err, _ := r.loads.Do(strconv.Itoa(size), func() (any, error) {
		start := time.Now()
		b, err := r.loadBucket(ctx, e)

		r.opts.metricsCollector.RecordBucketLoad(int64(e.Length), false, time.Since(start), err)
		r.opts.logger.LogBucketLoad(ctx, size, int64(e.Length), false, err)
		if err != nil {
			return nil, err
		}
		if !r.cache.Set(size, b, b.SizeInBytes()) {
			r.opts.logger.DebugContext(ctx, "bucket not cached", "path", r.name, "size", size)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*bucket.Bucket), nil
}

// loadBucket reads, verifies and decodes one bucket block.
func (r *Reader) loadBucket(ctx context.Context, e format.Entry) (*bucket.Bucket, error) {
	block, err := blobstore.ReadRange(ctx, r.blob, int64(e.Offset), int64(e.Length))
	if err != nil {
		return nil, readError(fmt.Sprintf("bucket %d", e.Size), err)
	}
	if !hash.Verify(block, e.Checksum) {
		return nil, fmt.Errorf("%w: bucket %d: %w", ErrCorruptIndex, e.Size, format.ErrChecksumMismatch)
	}

	payload, err := compress.Decode(block, compress.Type(r.header.Compression))
	if err != nil {
		return nil, fmt.Errorf("%w: bucket %d: %w", ErrCorruptIndex, e.Size, err)
	}
	b, err := format.DecodeBucket(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bucket %d: %w", ErrCorruptIndex, e.Size, err)
	}
	if uint64(b.Size) != e.Size || uint64(b.Len()) != e.Records {
		return nil, fmt.Errorf("%w: bucket %d does not match its directory entry", ErrCorruptIndex, e.Size)
	}
	return b, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
