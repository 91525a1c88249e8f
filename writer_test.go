package simgo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simgo/internal/fs"
)

func TestWriterLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")
	ctx := context.Background()

	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.Insert("abc"))
	require.NoError(t, w.Insert("abd"))
	assert.Equal(t, 2, w.Len())

	// Nothing is visible at the target before Finalize.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	got, err := w.Retrieve(ctx, "abc", Exact, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, got)

	require.NoError(t, w.Finalize(ctx))

	assert.ErrorIs(t, w.Insert("abe"), ErrWriterClosed)
	assert.ErrorIs(t, w.Finalize(ctx), ErrWriterClosed)
	_, err = w.Retrieve(ctx, "abc", Exact, 1)
	assert.ErrorIs(t, err, ErrWriterClosed)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
	assert.Empty(t, tempFiles(t, path))
}

func TestWriterCloseAbandonsBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Insert("abc"))
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Insert("abc"), ErrWriterClosed)
	assert.ErrorIs(t, w.Finalize(context.Background()), ErrWriterClosed)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, tempFiles(t, path))
}

func TestCreateReplacesExistingIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")
	buildIndex(t, path, []string{"old"})
	buildIndex(t, path, []string{"new"})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 1, r.Info().Records)
	got, err := r.Retrieve(context.Background(), "old", Exact, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConcurrentWritersSamePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")
	buildIndex(t, path, []string{"previous"})
	ctx := context.Background()

	w1, err := Create(path)
	require.NoError(t, err)
	defer w1.Close()
	require.NoError(t, w1.Insert("abcde"))

	w2, err := Create(path)
	require.NoError(t, err)
	defer w2.Close()
	require.NoError(t, w2.Insert("xyz"))
	require.NoError(t, w2.Insert("xyzw"))

	assert.Len(t, tempFiles(t, path), 2)

	require.NoError(t, w1.Finalize(ctx))

	r, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Info().Records)
	got, err := r.Retrieve(ctx, "abcde", Exact, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde"}, got)
	require.NoError(t, r.Close())

	require.NoError(t, w2.Finalize(ctx))

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 2, r.Info().Records)
	got, err = r.Retrieve(ctx, "xyz", Exact, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"xyz"}, got)

	assert.Empty(t, tempFiles(t, path))
}

func TestCreateStorageUnavailable(t *testing.T) {
	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("names.sim.tmp", fs.Fault{FailOnOpen: true, FailAfterBytes: -1})

	_, err := Create(filepath.Join(t.TempDir(), "names.sim"), withFileSystem(faulty))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, fs.ErrInjected)
}

func TestFinalizeWriteFailure(t *testing.T) {
	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"header", fs.Fault{FailAfterBytes: 10}},
		{"bucket block", fs.Fault{FailAfterBytes: 100}},
		{"sync", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", fs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"rename", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	corpus := []string{"alpha", "alphabet", "beta", "gamma", "delta", "epsilon"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "names.sim")

			// A previous index must survive a failed rebuild.
			buildIndex(t, path, []string{"previous"})

			faulty := fs.NewFaultyFS(nil)
			faulty.AddRule("names.sim.tmp", tt.fault)

			// Nothing is written before Finalize, so Create succeeds.
			w, err := Create(path, withFileSystem(faulty))
			require.NoError(t, err)
			for _, s := range corpus {
				require.NoError(t, w.Insert(s))
			}

			err = w.Finalize(context.Background())
			require.ErrorIs(t, err, ErrStorageWriteFailure)
			assert.ErrorIs(t, err, fs.ErrInjected)

			assert.ErrorIs(t, w.Insert("x"), ErrWriterClosed)
			require.NoError(t, w.Close())

			assert.Empty(t, tempFiles(t, path))

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			got, err := r.Retrieve(context.Background(), "previous", Exact, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"previous"}, got)
		})
	}
}

func TestFinalizeCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.sim")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Insert("abc"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Finalize(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func tempFiles(t *testing.T, path string) []string {
	t.Helper()

	matches, err := filepath.Glob(path + ".tmp*")
	require.NoError(t, err)
	return matches
}
