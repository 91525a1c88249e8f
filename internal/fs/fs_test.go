package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "index.sim")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	buf := make([]byte, 3)
	_, err = f.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "ell", string(buf))
	require.NoError(t, f.Close())

	newPath := filepath.Join(dir, "renamed.sim")
	require.NoError(t, lfs.Rename(fpath, newPath))

	require.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateTempUniqueNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sim")

	f1, name1, err := CreateTemp(Default, path)
	require.NoError(t, err)
	defer f1.Close()

	f2, name2, err := CreateTemp(Default, path)
	require.NoError(t, err)
	defer f2.Close()

	assert.NotEqual(t, name1, name2)
	assert.True(t, strings.HasPrefix(name1, path+".tmp-"))
	assert.True(t, strings.HasPrefix(name2, path+".tmp-"))

	_, err = f1.Write([]byte("first"))
	require.NoError(t, err)

	info, err := f2.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestCreateTempOpenFailure(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("index.sim.tmp", Fault{FailOnOpen: true, FailAfterBytes: -1})

	_, _, err := CreateTemp(ffs, filepath.Join(t.TempDir(), "index.sim"))
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFSWriteLimit(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("faulty.txt", Fault{FailAfterBytes: 5})

	fpath := filepath.Join(t.TempDir(), "faulty.txt")
	f, err := ffs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFaultyFSRules(t *testing.T) {
	boom := errors.New("boom")
	ffs := NewFaultyFS(nil)
	ffs.AddRule("sync.txt", Fault{FailAfterBytes: -1, FailOnSync: true, Err: boom})
	ffs.AddRule("open.txt", Fault{FailOnOpen: true})
	ffs.AddRule("move.txt", Fault{FailAfterBytes: -1, FailOnRename: true})

	dir := t.TempDir()

	_, err := ffs.OpenFile(filepath.Join(dir, "open.txt"), os.O_CREATE|os.O_RDWR, 0o644)
	assert.ErrorIs(t, err, ErrInjected)

	f, err := ffs.OpenFile(filepath.Join(dir, "sync.txt"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), boom)
	require.NoError(t, f.Close())

	src := filepath.Join(dir, "move.txt")
	require.NoError(t, os.WriteFile(src, nil, 0o644))
	assert.ErrorIs(t, ffs.Rename(src, filepath.Join(dir, "dst.txt")), ErrInjected)

	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, nil, 0o644))
	assert.NoError(t, ffs.Rename(other, filepath.Join(dir, "dst.txt")))
}
