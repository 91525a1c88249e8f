package bucket

import (
	"context"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bucket groups all records whose feature set has the same size.
// Record ordinals are local to the bucket and index into Records.
type Bucket struct {
	Size     int
	Records  []string
	Postings map[string]*roaring.Bitmap
}

// New returns an empty bucket for feature sets of the given size.
func New(size int) *Bucket {
	return &Bucket{
		Size:     size,
		Postings: make(map[string]*roaring.Bitmap),
	}
}

// Add appends a record with its features and returns its ordinal.
// features must be distinct and have length Size.
func (b *Bucket) Add(record string, features []string) uint32 {
	id := uint32(len(b.Records))
	b.Records = append(b.Records, record)
	for _, f := range features {
		bm, ok := b.Postings[f]
		if !ok {
			bm = roaring.New()
			b.Postings[f] = bm
		}
		bm.Add(id)
	}
	return id
}

// Lookup returns the postings of feature f or nil.
func (b *Bucket) Lookup(f string) *roaring.Bitmap {
	return b.Postings[f]
}

// Len returns the number of records.
func (b *Bucket) Len() int { return len(b.Records) }

// Record returns the record with ordinal id.
func (b *Bucket) Record(id uint32) string { return b.Records[id] }

// Features returns the features of the bucket in ascending order.
func (b *Bucket) Features() []string {
	fs := make([]string, 0, len(b.Postings))
	for f := range b.Postings {
		fs = append(fs, f)
	}
	slices.Sort(fs)
	return fs
}

// Optimize compresses runs in every postings bitmap.
func (b *Bucket) Optimize() {
	for _, bm := range b.Postings {
		bm.RunOptimize()
	}
}

// SizeInBytes estimates the heap footprint of the decoded bucket.
func (b *Bucket) SizeInBytes() int64 {
	var n int64 = 64
	for _, r := range b.Records {
		n += int64(len(r)) + 16
	}
	for f, bm := range b.Postings {
		n += int64(len(f)) + 16 + 8 + int64(bm.GetSizeInBytes())
	}
	return n
}

// Source provides buckets by size. Implementations must be safe for
// concurrent use once built.
type Source interface {
	// Sizes returns the sizes of all non-empty buckets in ascending order.
	Sizes() []int
	// Bucket returns the bucket of the given size, or nil when absent.
	Bucket(ctx context.Context, size int) (*Bucket, error)
}

// SizesWithin returns the sizes in the ascending slice sizes that fall
// into [lo, hi].
func SizesWithin(sizes []int, lo, hi int) []int {
	if lo > hi || len(sizes) == 0 {
		return nil
	}
	start, _ := slices.BinarySearch(sizes, lo)
	end := len(sizes)
	if hi < math.MaxInt {
		end, _ = slices.BinarySearch(sizes, hi+1)
	}
	if start >= end {
		return nil
	}
	return sizes[start:end]
}
