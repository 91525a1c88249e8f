package bucket

import (
	"context"
	"slices"
)

// Memory is the mutable build state of an index. It is not safe for
// concurrent mutation; callers serialize Insert.
type Memory struct {
	buckets map[int]*Bucket
	sizes   []int
	records int
}

// NewMemory returns an empty build state.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[int]*Bucket)}
}

// Insert adds a record with its distinct features to the bucket matching
// the feature count.
func (m *Memory) Insert(record string, features []string) {
	size := len(features)
	b, ok := m.buckets[size]
	if !ok {
		b = New(size)
		m.buckets[size] = b
		i, _ := slices.BinarySearch(m.sizes, size)
		m.sizes = slices.Insert(m.sizes, i, size)
	}
	b.Add(record, features)
	m.records++
}

// Len returns the number of inserted records.
func (m *Memory) Len() int { return m.records }

// Sizes implements Source.
func (m *Memory) Sizes() []int { return m.sizes }

// Bucket implements Source.
func (m *Memory) Bucket(_ context.Context, size int) (*Bucket, error) {
	return m.buckets[size], nil
}

// Buckets returns all buckets in ascending size order.
func (m *Memory) Buckets() []*Bucket {
	out := make([]*Bucket, 0, len(m.sizes))
	for _, s := range m.sizes {
		out = append(out, m.buckets[s])
	}
	return out
}
