// Package cache provides the cost-bounded LRU that keeps decoded buckets in
// memory between queries.
//
// Entries are charged by their estimated heap size. When a
// resource.Controller is attached the same cost is reserved from its memory
// budget, so several readers can share one global limit. An entry the budget
// cannot fit is simply not cached; the query still succeeds with the
// freshly decoded bucket.
package cache
