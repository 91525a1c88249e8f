// Package testutil provides testing utilities for simgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating seeded string corpora and computing
// exact retrieval results by brute force.
//
// # Random Corpora
//
//	rng := testutil.NewRNG(seed)
//	corpus := rng.Corpus(1000, testutil.LowerASCII, 3, 12)
//	query := rng.Mutate(corpus[0], testutil.LowerASCII, 2)
//
// # Exact Retrieval (Ground Truth)
//
//	want := testutil.BruteForce(gen, corpus, query, measure.Cosine, 0.7)
package testutil
