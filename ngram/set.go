package ngram

import (
	"slices"
	"strings"
)

// Set is an immutable, sorted set of distinct features derived from one string.
// The zero value is the empty set.
type Set struct {
	features []string
}

// NewSet builds a set from already distinct features. The input is copied.
func NewSet(features []string) Set {
	f := slices.Clone(features)
	slices.Sort(f)
	return Set{features: slices.Compact(f)}
}

// Size returns the cardinality of the set (the multiset size of the grams).
func (s Set) Size() int { return len(s.features) }

// Features returns the features in ascending order.
// The returned slice must not be modified.
func (s Set) Features() []string { return s.features }

// Contains reports whether f is a member of s.
func (s Set) Contains(f string) bool {
	_, ok := slices.BinarySearch(s.features, f)
	return ok
}

// Equal reports whether both sets hold exactly the same features.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s.features, other.features)
}

// Overlap returns the size of the intersection of a and b.
func Overlap(a, b Set) int {
	i, j, n := 0, 0, 0
	for i < len(a.features) && j < len(b.features) {
		switch c := strings.Compare(a.features[i], b.features[j]); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}
