package search

import (
	"cmp"
	"context"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/simgo/internal/bucket"
	"github.com/hupe1980/simgo/measure"
)

// Query describes one retrieval request. Features must be sorted and
// distinct, as produced by ngram.Set.
type Query struct {
	Features  []string
	Measure   measure.Measure
	Threshold float64
}

// Stats summarises the work done by a search.
type Stats struct {
	BucketsScanned int
	Candidates     int
	Matches        int
}

// EmitFunc receives every matching record. Returning false stops the search.
type EmitFunc func(record string) bool

type candidate struct {
	id    uint32
	count int
}

// Run executes q against src and passes every match to emit.
// The measure and threshold must already be validated.
func Run(ctx context.Context, src bucket.Source, q Query, emit EmitFunc) (Stats, error) {
	var st Stats

	qs := len(q.Features)
	if qs == 0 {
		return st, emitEmpty(ctx, src, emit, &st)
	}

	lo, hi := q.Measure.SizeBounds(qs, q.Threshold)
	score := q.Measure.Scorer(qs)

	for _, x := range bucket.SizesWithin(src.Sizes(), lo, hi) {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		omin := q.Measure.MinOverlap(qs, x, q.Threshold)
		if omin > min(qs, x) {
			continue
		}

		b, err := src.Bucket(ctx, x)
		if err != nil {
			return st, err
		}
		if b == nil {
			continue
		}
		st.BucketsScanned++

		if !scanBucket(b, q.Features, omin, q.Threshold, score, emit, &st) {
			return st, nil
		}
	}

	return st, nil
}

// emitEmpty handles the empty query, which matches exactly the empty records.
func emitEmpty(ctx context.Context, src bucket.Source, emit EmitFunc, st *Stats) error {
	b, err := src.Bucket(ctx, 0)
	if err != nil || b == nil {
		return err
	}
	st.BucketsScanned++
	for _, r := range b.Records {
		st.Candidates++
		st.Matches++
		if !emit(r) {
			return nil
		}
	}
	return nil
}

func scanBucket(b *bucket.Bucket, features []string, omin int, t float64, score func(x, o int) float64, emit EmitFunc, st *Stats) bool {
	qs := len(features)

	lists := make([]*roaring.Bitmap, qs)
	for i, f := range features {
		lists[i] = b.Lookup(f)
	}
	slices.SortStableFunc(lists, func(a, b *roaring.Bitmap) int {
		return cmp.Compare(cardinality(a), cardinality(b))
	})

	// Signature phase: every match occurs in at least one of these lists.
	sig := qs - omin + 1
	counts := make(map[uint32]int)
	for _, bm := range lists[:sig] {
		if bm == nil {
			continue
		}
		bm.Iterate(func(id uint32) bool {
			counts[id]++
			return true
		})
	}
	if len(counts) == 0 {
		return true
	}
	st.Candidates += len(counts)

	cands := make([]candidate, 0, len(counts))
	for id, c := range counts {
		cands = append(cands, candidate{id: id, count: c})
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.id, b.id)
	})

	accept := func(c candidate) (bool, bool) {
		if c.count >= omin && score(b.Size, c.count) >= t {
			st.Matches++
			return true, emit(b.Record(c.id))
		}
		return false, true
	}

	// Candidates already at the minimum overlap are accepted before probing.
	pending := cands[:0]
	for _, c := range cands {
		done, more := accept(c)
		if !more {
			return false
		}
		if !done {
			pending = append(pending, c)
		}
	}
	cands = pending

	for i := sig; i < qs && len(cands) > 0; i++ {
		bm := lists[i]
		remaining := qs - i - 1

		live := cands[:0]
		for _, c := range cands {
			if bm != nil && bm.Contains(c.id) {
				c.count++
			}
			done, more := accept(c)
			if !more {
				return false
			}
			if done {
				continue
			}
			if c.count+remaining < omin {
				continue
			}
			live = append(live, c)
		}
		cands = live
	}

	return true
}

func cardinality(bm *roaring.Bitmap) uint64 {
	if bm == nil {
		return 0
	}
	return bm.GetCardinality()
}

// Retrieve collects all matches of q.
func Retrieve(ctx context.Context, src bucket.Source, q Query) ([]string, Stats, error) {
	var out []string
	st, err := Run(ctx, src, q, func(r string) bool {
		out = append(out, r)
		return true
	})
	if err != nil {
		return nil, st, err
	}
	return out, st, nil
}

// Exists reports whether q has at least one match. It stops at the first one.
func Exists(ctx context.Context, src bucket.Source, q Query) (bool, Stats, error) {
	found := false
	st, err := Run(ctx, src, q, func(string) bool {
		found = true
		return false
	})
	if err != nil {
		return false, st, err
	}
	return found, st, nil
}
