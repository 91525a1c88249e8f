// Package mmap provides read-only memory-mapped access to finalized index
// files.
//
// A reader maps the whole index once and slices bucket blocks out of the
// mapping without copying:
//
//	m, err := mmap.Open("names.sim")
//	if err != nil { ... }
//	defer m.Close()
//
//	block, err := m.Slice(offset, length)
//
// On Unix the file is mapped with mmap(2) and access hints go through
// madvise(2). Other platforms read the file into memory.
//
// Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not use slices obtained from Bytes or Slice after Close returns.
package mmap
