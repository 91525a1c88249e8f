// Package measure implements the set-similarity measures used for
// approximate string retrieval.
//
// Every measure is a function of three integers: the query set size q, the
// candidate set size x and their overlap o. Besides the similarity itself the
// package derives, for a threshold t, the interval of candidate sizes that can
// reach t at all ([Measure.SizeBounds]) and the smallest overlap a candidate
// of a given size needs ([Measure.MinOverlap]). Both are conservative: they
// never exclude a candidate that satisfies the threshold.
//
// Supported measures:
//   - Exact:   1 iff both sets are equal, otherwise 0
//   - Dice:    2o / (q + x)
//   - Cosine:  o / sqrt(q x)
//   - Jaccard: o / (q + x - o)
//   - Overlap: o / min(q, x)
//
// Two empty sets have similarity 1 under every measure. An empty set
// compared with a non-empty one has similarity 0.
package measure
