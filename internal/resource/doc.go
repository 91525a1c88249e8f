// Package resource governs the resources an index reader and writer may use.
//
// A [Controller] tracks memory held by decoded buckets against an optional
// hard limit, bounds how many queries of a batch run at once, and throttles
// the bytes written while an index is finalized. All methods are safe for
// concurrent use, and a nil *Controller imposes no limits.
package resource
