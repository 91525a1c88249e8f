// Package search implements overlap-pruned candidate generation (CPMerge)
// over a bucketed inverted index.
//
// For a query with q features, a measure and a threshold, only buckets whose
// size lies in the measure's achievable-size interval are visited. Within a
// bucket of size x a candidate needs at least o = MinOverlap(q, x) shared
// features, so it must appear in at least one of any q-o+1 postings lists.
// The rarest q-o+1 lists produce the candidate set (signature phase); the
// remaining lists are only probed for those candidates, and a candidate is
// dropped as soon as the lists left cannot lift it to o.
package search
