package format

import (
	"encoding/binary"

	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/internal/hash"
)

// Entry locates one bucket block.
type Entry struct {
	Size     uint64
	Records  uint64
	Offset   uint64
	Length   uint64
	Checksum uint32
}

// EncodeDirectory serialises entries, which must be in ascending size order.
func EncodeDirectory(entries []Entry) []byte {
	buf := binary.AppendUvarint(nil, uint64(len(entries)))
	for _, e := range entries {
		buf = binary.AppendUvarint(buf, e.Size)
		buf = binary.AppendUvarint(buf, e.Records)
		buf = binary.AppendUvarint(buf, e.Offset)
		buf = binary.AppendUvarint(buf, e.Length)
		buf = binary.LittleEndian.AppendUint32(buf, e.Checksum)
	}
	return buf
}

// DecodeDirectory parses a directory. The caller verifies its checksum.
func DecodeDirectory(buf []byte) ([]Entry, error) {
	d := decoder{buf: buf}
	n := d.uvarint()
	// Every entry takes at least 8 bytes.
	if d.err == nil && n > uint64(len(buf))/8 {
		return nil, corruptf("directory claims %d entries in %d bytes", n, len(buf))
	}

	entries := make([]Entry, 0, n)
	for range n {
		e := Entry{
			Size:    d.uvarint(),
			Records: d.uvarint(),
			Offset:  d.uvarint(),
			Length:  d.uvarint(),
		}
		e.Checksum = d.uint32()
		if d.err != nil {
			break
		}
		entries = append(entries, e)
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(buf) {
		return nil, corruptf("%d trailing directory bytes", len(buf)-d.off)
	}
	return entries, nil
}

// ValidateDirectory checks the directory against the header: bucket count,
// strictly ascending sizes, block bounds and the total record count.
func ValidateDirectory(h *Header, entries []Entry) error {
	if uint64(len(entries)) != uint64(h.Buckets) {
		return corruptf("directory has %d buckets, header %d", len(entries), h.Buckets)
	}

	var records uint64
	for i, e := range entries {
		if i > 0 && e.Size <= entries[i-1].Size {
			return corruptf("bucket sizes not ascending at %d", i)
		}
		if e.Records == 0 {
			return corruptf("bucket %d is empty", e.Size)
		}
		if e.Length < compress.HeaderSize || e.Offset < HeaderSize ||
			e.Offset > h.DirOffset || e.Length > h.DirOffset-e.Offset {
			return corruptf("bucket %d block [%d,+%d) out of bounds", e.Size, e.Offset, e.Length)
		}
		records += e.Records
	}
	if records != h.Records {
		return corruptf("buckets hold %d records, header %d", records, h.Records)
	}
	return nil
}

// VerifyDirectory checks the directory bytes against the header checksum.
func VerifyDirectory(h *Header, buf []byte) error {
	if uint64(len(buf)) != h.DirLength {
		return corruptf("directory length %d, header %d", len(buf), h.DirLength)
	}
	if !hash.Verify(buf, h.DirChecksum) {
		return ErrChecksumMismatch
	}
	return nil
}
