package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.sim")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestOpenReadClose(t *testing.T) {
	content := []byte("Hello, Mmap!")
	m, err := Open(writeFile(t, content))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, len(content), m.Size())
	assert.Equal(t, content, m.Bytes())
	assert.NoError(t, m.Advise(AccessRandom))

	buf := make([]byte, 5)
	n, err := m.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "Mmap!", string(buf))

	n, err = m.ReadAt(make([]byte, 10), 100)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	buf3 := make([]byte, 10)
	n, err = m.ReadAt(buf3, 7)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestSlice(t *testing.T) {
	m, err := Open(writeFile(t, []byte("0123456789")))
	require.NoError(t, err)

	s, err := m.Slice(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "234", string(s))

	_, err = m.Slice(8, 3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Slice(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.Slice(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, m.Bytes())
}

func TestEmptyFile(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	s, err := m.Slice(0, 0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}
