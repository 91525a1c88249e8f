// Package compress implements the block codec used for bucket blocks.
//
// Every block starts with an 8-byte little-endian header:
//
//	[uncompressed size uint32][compressed size uint32][data...]
//
// A compressed size of 0 marks a block stored raw, which is also used when
// compression does not shrink the data by at least 10%.
package compress
