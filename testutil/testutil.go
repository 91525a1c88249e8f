package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/simgo/measure"
	"github.com/hupe1980/simgo/ngram"
)

// Alphabets for corpus generation.
var (
	// LowerASCII is the lowercase Latin alphabet.
	LowerASCII = []rune("abcdefghijklmnopqrstuvwxyz")
	// Small is a four letter alphabet that produces many shared n-grams.
	Small = []rune("abcd")
	// MultiByte mixes Latin, accented, Greek and CJK code points.
	MultiByte = []rune("aeéüßλπ日本語")
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// String returns a random string over alphabet with a length in [minLen, maxLen].
func (r *RNG) String(alphabet []rune, minLen, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stringLocked(alphabet, minLen, maxLen)
}

func (r *RNG) stringLocked(alphabet []rune, minLen, maxLen int) string {
	n := minLen
	if maxLen > minLen {
		n += r.rand.Intn(maxLen - minLen + 1)
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = alphabet[r.rand.Intn(len(alphabet))]
	}
	return string(out)
}

// Corpus generates num random strings. Roughly one in ten is a duplicate of
// an earlier entry so that multiset behaviour is exercised.
func (r *RNG) Corpus(num int, alphabet []rune, minLen, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, num)
	for range num {
		if len(out) > 0 && r.rand.Intn(10) == 0 {
			out = append(out, out[r.rand.Intn(len(out))])
			continue
		}
		out = append(out, r.stringLocked(alphabet, minLen, maxLen))
	}
	return out
}

// Mutate applies up to edits random substitutions, insertions or deletions.
func (r *RNG) Mutate(s string, alphabet []rune, edits int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs := []rune(s)
	for range edits {
		switch op := r.rand.Intn(3); {
		case op == 0 && len(rs) > 0:
			rs[r.rand.Intn(len(rs))] = alphabet[r.rand.Intn(len(alphabet))]
		case op == 1:
			i := r.rand.Intn(len(rs) + 1)
			rs = append(rs[:i], append([]rune{alphabet[r.rand.Intn(len(alphabet))]}, rs[i:]...)...)
		case len(rs) > 0:
			i := r.rand.Intn(len(rs))
			rs = append(rs[:i], rs[i+1:]...)
		}
	}
	return string(rs)
}

// BruteForce scans the whole corpus and returns every string whose
// similarity to query reaches t. Duplicates in the corpus are preserved.
// The result is sorted.
func BruteForce(gen *ngram.Generator, corpus []string, query string, m measure.Measure, t float64) []string {
	qs := gen.Generate(query)

	var out []string
	for _, s := range corpus {
		xs := gen.Generate(s)
		if m.Match(qs.Size(), xs.Size(), ngram.Overlap(qs, xs), t) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Sorted returns a sorted copy of s.
func Sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
