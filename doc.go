// Package simgo provides approximate string retrieval over a static
// collection of strings.
//
// An index is built once from a stream of strings and queried many times:
// "return every indexed string whose similarity to the query is at least t".
// Strings are compared as sets of n-grams under one of five measures
// (exact, dice, cosine, jaccard, overlap). Records are partitioned by the
// size of their n-gram set, so a query only visits the sizes that can reach
// the threshold, and within a size it intersects just enough postings lists
// to rule candidates in or out (CPMerge).
//
// # Quick Start
//
// Build:
//
//	w, _ := simgo.Create("names.sim", simgo.WithNgramSize(3))
//	for _, s := range names {
//	    _ = w.Insert(s)
//	}
//	_ = w.Finalize(ctx)
//
// Query:
//
//	r, _ := simgo.Open("names.sim")
//	defer r.Close()
//	matches, _ := r.Retrieve(ctx, "jon smith", simgo.Cosine, 0.7)
//
// Remote:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("indexes/"))
//	_ = simgo.Publish(ctx, store, "names.sim", "names.sim")
//	r, _ := simgo.OpenBlob(ctx, store, "names.sim")
//
// # Guarantees
//
//   - No false negatives: pruning only skips work that cannot produce a match,
//     and every candidate is verified against the exact formula.
//   - Atomic builds: a failed Finalize leaves nothing at the target path.
//   - Fail closed: an index whose header, directory or blocks do not check
//     out is reported as ErrCorruptIndex and never queried.
//   - A Reader is safe for concurrent use; queries have no side effects.
package simgo
