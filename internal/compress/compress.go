package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks raw.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

// HeaderSize is the size of the block header.
const HeaderSize = 8

// maxBlockSize bounds the uncompressed size accepted by Decode.
const maxBlockSize = 1 << 30

var (
	// ErrUnknownType is returned for an unsupported compression type.
	ErrUnknownType = errors.New("compress: unknown compression type")

	// ErrCorrupt is returned when a block cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt block")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Valid reports whether t is a known compression type.
func (t Type) Valid() bool { return t <= ZSTD }

// ParseType parses "none", "lz4" or "zstd".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Encode compresses data into a block with header.
func Encode(data []byte, t Type) ([]byte, error) {
	if len(data) > maxBlockSize {
		return nil, fmt.Errorf("compress: block of %d bytes exceeds limit", len(data))
	}

	var (
		compressed []byte
		err        error
	)
	switch t {
	case None:
	case LZ4:
		compressed, err = encodeLZ4(data)
	case ZSTD:
		compressed = encodeZSTD(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if err != nil {
		return nil, err
	}

	// Store raw if compression doesn't help (ratio > 0.9).
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return frame(data, 0), nil
	}
	return frame(compressed, uint32(len(data))), nil
}

func frame(payload []byte, uncompressed uint32) []byte {
	out := make([]byte, HeaderSize+len(payload))
	if uncompressed == 0 {
		binary.LittleEndian.PutUint32(out[0:], uint32(len(payload)))
		binary.LittleEndian.PutUint32(out[4:], 0)
	} else {
		binary.LittleEndian.PutUint32(out[0:], uncompressed)
		binary.LittleEndian.PutUint32(out[4:], uint32(len(payload)))
	}
	copy(out[HeaderSize:], payload)
	return out
}

func encodeLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	var c lz4.Compressor
	n, err := c.CompressBlock(data, compressed)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func encodeZSTD(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// Decode decompresses a block produced by Encode with the same type.
// Raw blocks are returned as a sub-slice of block.
func Decode(block []byte, t Type) ([]byte, error) {
	if len(block) < HeaderSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := binary.LittleEndian.Uint32(block[0:])
	compressedSize := binary.LittleEndian.Uint32(block[4:])
	body := block[HeaderSize:]

	if uncompressedSize > maxBlockSize {
		return nil, fmt.Errorf("%w: uncompressed size %d exceeds limit", ErrCorrupt, uncompressedSize)
	}

	if compressedSize == 0 {
		if uint32(len(body)) != uncompressedSize {
			return nil, fmt.Errorf("%w: raw block size mismatch", ErrCorrupt)
		}
		return body, nil
	}

	if uint32(len(body)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed block size mismatch", ErrCorrupt)
	}

	result := make([]byte, uncompressedSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(body, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
