package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/simgo/internal/cache"
)

type blockKey struct {
	name  string
	block int64
}

// CachingStore wraps a remote BlobStore and caches fixed-size blocks of
// the blobs it reads. Index files are immutable, so cached blocks never go
// stale until the blob is replaced through this store.
type CachingStore struct {
	inner     BlobStore
	cache     *cache.LRU[blockKey, []byte]
	blockSize int64
}

// NewCachingStore creates a new CachingStore holding up to capacity bytes.
// blockSize defaults to 64KB if <= 0.
func NewCachingStore(inner BlobStore, capacity, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 64 * 1024
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache.NewLRU[blockKey, []byte](capacity, nil),
		blockSize: blockSize,
	}
}

// Open opens a blob whose reads go through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{store: s, inner: b, name: name}, nil
}

// Put replaces a blob and drops every cached block of it.
func (s *CachingStore) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	s.cache.Purge()
	return s.inner.Put(ctx, name, r, size)
}

// Delete removes a blob and drops every cached block.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Purge()
	return s.inner.Delete(ctx, name)
}

// Stats returns the block cache statistics.
func (s *CachingStore) Stats() cache.Stats {
	return s.cache.Stats()
}

type cachingBlob struct {
	store *CachingStore
	inner Blob
	name  string
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if off < 0 || off >= b.Size() {
		return 0, io.EOF
	}

	bs := b.store.blockSize
	end := min(off+int64(len(p)), b.Size())
	first, last := off/bs, (end-1)/bs

	blocks, err := b.fetch(ctx, first, last)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, data := range blocks {
		start := (first + int64(i)) * bs
		lo := max(off, start) - start
		hi := min(end, start+int64(len(data))) - start
		if lo >= hi {
			continue
		}
		n += copy(p[n:], data[lo:hi])
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// fetch returns blocks [first, last], loading contiguous runs of missing
// blocks with one backend read each.
func (b *cachingBlob) fetch(ctx context.Context, first, last int64) ([][]byte, error) {
	blocks := make([][]byte, last-first+1)

	type run struct{ start, count int64 }
	var missing []run
	for blk := first; blk <= last; blk++ {
		if data, ok := b.store.cache.Get(blockKey{b.name, blk}); ok {
			blocks[blk-first] = data
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
			continue
		}
		missing = append(missing, run{blk, 1})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	bs := b.store.blockSize
	for _, r := range missing {
		g.Go(func() error {
			start := r.start * bs
			size := min(r.count*bs, b.Size()-start)

			buf := make([]byte, size)
			n, err := b.inner.ReadAt(gctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := range r.count {
				lo := i * bs
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+bs, int64(len(buf)))
				// Copy so a cached block does not pin the whole run.
				data := append([]byte(nil), buf[lo:hi]...)
				blocks[r.start+i-first] = data
				b.store.cache.Set(blockKey{b.name, r.start + i}, data, int64(len(data)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}
