package bucket

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketAdd(t *testing.T) {
	b := New(2)
	assert.Equal(t, uint32(0), b.Add("ab", []string{"a", "b"}))
	assert.Equal(t, uint32(1), b.Add("bc", []string{"b", "c"}))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "bc", b.Record(1))
	assert.Equal(t, []string{"a", "b", "c"}, b.Features())
	assert.Equal(t, []uint32{0, 1}, b.Lookup("b").ToArray())
	assert.Nil(t, b.Lookup("z"))
	assert.Positive(t, b.SizeInBytes())
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.Insert("abc", []string{"x", "y", "z"})
	m.Insert("a", []string{"x"})
	m.Insert("abc", []string{"x", "y", "z"})
	m.Insert("", nil)

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []int{0, 1, 3}, m.Sizes())

	b, err := m.Bucket(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "abc"}, b.Records)

	b, err = m.Bucket(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, b)

	assert.Len(t, m.Buckets(), 3)
}

func TestSizesWithin(t *testing.T) {
	sizes := []int{1, 3, 5, 8}
	assert.Equal(t, []int{3, 5}, SizesWithin(sizes, 2, 6))
	assert.Equal(t, []int{5, 8}, SizesWithin(sizes, 5, math.MaxInt))
	assert.Equal(t, []int{1}, SizesWithin(sizes, 0, 1))
	assert.Empty(t, SizesWithin(sizes, 6, 7))
	assert.Empty(t, SizesWithin(sizes, 4, 2))
	assert.Empty(t, SizesWithin(nil, 0, 10))
}
