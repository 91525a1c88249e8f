package format

import (
	"encoding/binary"

	"github.com/hupe1980/simgo/internal/hash"
)

const (
	// Magic identifies an index file ("SIM1").
	Magic = 0x53494D31
	// Version is the format version written by this package.
	Version = 1
	// HeaderSize is the fixed size of the file header.
	HeaderSize = 64

	flagPadding = 1 << 0

	maxUnit        = 1
	maxCompression = 2
)

// Header describes an index file.
type Header struct {
	Version     uint32
	N           uint32
	Padding     bool
	Unit        uint8
	Compression uint8
	Records     uint64
	Buckets     uint32
	DirOffset   uint64
	DirLength   uint64
	DirChecksum uint32
}

// Encode serialises the header including its checksum.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	binary.LittleEndian.PutUint32(buf[8:], h.N)
	if h.Padding {
		buf[12] |= flagPadding
	}
	buf[13] = h.Unit
	buf[14] = h.Compression
	binary.LittleEndian.PutUint64(buf[16:], h.Records)
	binary.LittleEndian.PutUint32(buf[24:], h.Buckets)
	binary.LittleEndian.PutUint64(buf[32:], h.DirOffset)
	binary.LittleEndian.PutUint64(buf[40:], h.DirLength)
	binary.LittleEndian.PutUint32(buf[48:], h.DirChecksum)
	binary.LittleEndian.PutUint32(buf[52:], hash.CRC32C(buf[:52]))
	return buf
}

// DecodeHeader parses and validates a header.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, corruptf("file too small for header (%d bytes)", len(buf))
	}
	if binary.LittleEndian.Uint32(buf[0:]) != Magic {
		return nil, ErrInvalidMagic
	}

	h := &Header{Version: binary.LittleEndian.Uint32(buf[4:])}
	if h.Version != Version {
		return nil, &VersionError{Found: h.Version, Supported: Version}
	}
	if !hash.Verify(buf[:52], binary.LittleEndian.Uint32(buf[52:])) {
		return nil, ErrChecksumMismatch
	}

	h.N = binary.LittleEndian.Uint32(buf[8:])
	h.Padding = buf[12]&flagPadding != 0
	h.Unit = buf[13]
	h.Compression = buf[14]
	h.Records = binary.LittleEndian.Uint64(buf[16:])
	h.Buckets = binary.LittleEndian.Uint32(buf[24:])
	h.DirOffset = binary.LittleEndian.Uint64(buf[32:])
	h.DirLength = binary.LittleEndian.Uint64(buf[40:])
	h.DirChecksum = binary.LittleEndian.Uint32(buf[48:])

	if h.N == 0 {
		return nil, corruptf("n-gram length is zero")
	}
	if h.Unit > maxUnit {
		return nil, corruptf("unknown unit %d", h.Unit)
	}
	if h.Compression > maxCompression {
		return nil, corruptf("unknown compression %d", h.Compression)
	}
	if h.DirOffset < HeaderSize {
		return nil, corruptf("directory offset %d inside header", h.DirOffset)
	}
	return h, nil
}
