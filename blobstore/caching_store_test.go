package blobstore

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	reads atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, reads: &s.reads}, nil
}

type countingBlob struct {
	Blob
	reads *atomic.Int64
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	b.reads.Add(1)
	return b.Blob.ReadAt(ctx, p, off)
}

func TestCachingStore(t *testing.T) {
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	inner.PutBytes("idx", data)

	store := NewCachingStore(inner, 1<<20, 64)
	ctx := context.Background()

	blob, err := store.Open(ctx, "idx")
	require.NoError(t, err)
	defer blob.Close()

	got, err := ReadRange(ctx, blob, 100, 300)
	require.NoError(t, err)
	assert.Equal(t, data[100:400], got)
	assert.Equal(t, int64(1), inner.reads.Load())

	// Fully cached now.
	got, err = ReadRange(ctx, blob, 150, 200)
	require.NoError(t, err)
	assert.Equal(t, data[150:350], got)
	assert.Equal(t, int64(1), inner.reads.Load())

	// Tail of the blob, partially past the last block boundary.
	got, err = ReadRange(ctx, blob, 950, 50)
	require.NoError(t, err)
	assert.Equal(t, data[950:], got)

	st := store.Stats()
	assert.Positive(t, st.Hits)
	assert.Positive(t, st.Entries)

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "idx"))
	assert.Equal(t, 0, store.Stats().Entries)
}
