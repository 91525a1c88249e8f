// Package bucket holds the in-memory model of the inverted index: records
// partitioned by feature-set size, with a roaring bitmap postings list per
// (bucket, feature) pair. The same model backs the build state of a writer
// and the lazily decoded buckets of a reader.
package bucket
