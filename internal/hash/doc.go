// Package hash provides the checksums that protect index files.
//
// Every checksum in simgo is CRC32-Castagnoli (CRC32C): the index header,
// the bucket directory and every stored bucket block carry one. Go's crc32
// package uses SSE4.2 or the ARM CRC extension when available.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
