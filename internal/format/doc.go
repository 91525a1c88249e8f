// Package format defines the on-disk layout of a finalized index (version 1).
//
//	Header (64 bytes, little endian)
//	   0  magic        uint32  0x53494D31 ("SIM1")
//	   4  version      uint32
//	   8  ngram N      uint32
//	  12  flags        uint8   bit0 = padding
//	  13  unit         uint8   0 = byte, 1 = rune
//	  14  compression  uint8   0 = none, 1 = lz4, 2 = zstd
//	  16  records      uint64
//	  24  buckets      uint32
//	  32  dir offset   uint64
//	  40  dir length   uint64
//	  48  dir crc32c   uint32
//	  52  header crc   uint32  (bytes 0..52)
//	Bucket blocks      one compressed block per bucket
//	Directory          uvarint count, then per bucket in ascending size:
//	                   uvarint size, records, offset, length; uint32 crc32c
//	                   of the stored block
//
// A bucket block decompresses to
//
//	uvarint size, uvarint records, records as uvarint-length strings,
//	uvarint features, per feature in ascending order the uvarint-length
//	feature followed by its uvarint-length roaring bitmap.
//
// The header is written last, so a file whose build was interrupted has a
// zero magic and never opens.
package format
