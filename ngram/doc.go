// Package ngram extracts n-gram feature sets from strings.
//
// A [Generator] slices a string into overlapping substrings of a fixed
// length N, either by byte or by Unicode code point ([Unit]). With padding
// enabled, N-1 [Marker] units are added at both ends so that prefix and
// suffix context contribute features and short strings still produce at
// least one n-gram.
//
// # Multisets
//
// A string can contain the same n-gram more than once ("banana" has "ana"
// twice). Similarity measures operate on multisets, so [Generator.Generate]
// folds multiplicity into distinct features: the k-th occurrence (k >= 2) of
// a gram g becomes g + Marker + k. Two [Set] values then intersect in exactly
// as many features as their underlying multisets do, which lets postings
// lists and overlap counting treat every feature as a plain set element.
//
// # Consistency
//
// The index records N, padding and unit in its header. The same
// configuration must be used for building and querying; any mismatch
// silently changes the granularity of features.
package ngram
