package format

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/simgo/internal/bucket"
)

// EncodeBucket serialises a bucket into its uncompressed block payload.
func EncodeBucket(b *bucket.Bucket) ([]byte, error) {
	buf := binary.AppendUvarint(nil, uint64(b.Size))
	buf = binary.AppendUvarint(buf, uint64(len(b.Records)))
	for _, r := range b.Records {
		buf = binary.AppendUvarint(buf, uint64(len(r)))
		buf = append(buf, r...)
	}

	features := b.Features()
	buf = binary.AppendUvarint(buf, uint64(len(features)))
	for _, f := range features {
		bm, err := b.Postings[f].ToBytes()
		if err != nil {
			return nil, fmt.Errorf("format: encode postings of bucket %d: %w", b.Size, err)
		}
		buf = binary.AppendUvarint(buf, uint64(len(f)))
		buf = append(buf, f...)
		buf = binary.AppendUvarint(buf, uint64(len(bm)))
		buf = append(buf, bm...)
	}
	return buf, nil
}

// DecodeBucket parses a block payload. Record strings and features are
// copied, so buf may be released afterwards.
func DecodeBucket(buf []byte) (*bucket.Bucket, error) {
	d := decoder{buf: buf}

	size := d.uvarint()
	n := d.uvarint()
	if d.err != nil {
		return nil, d.err
	}
	// Every record takes at least one length byte.
	if n > uint64(len(buf)) {
		return nil, corruptf("bucket claims %d records in %d bytes", n, len(buf))
	}

	b := bucket.New(int(size))
	b.Records = make([]string, n)
	for i := range b.Records {
		b.Records[i] = string(d.bytes())
	}

	nf := d.uvarint()
	if d.err != nil {
		return nil, d.err
	}
	if nf > uint64(len(buf)) {
		return nil, corruptf("bucket claims %d features in %d bytes", nf, len(buf))
	}

	prev := ""
	for i := range nf {
		f := string(d.bytes())
		raw := d.bytes()
		if d.err != nil {
			return nil, d.err
		}
		if i > 0 && f <= prev {
			return nil, corruptf("features not ascending in bucket %d", size)
		}
		prev = f

		bm := roaring.New()
		if err := bm.UnmarshalBinary(raw); err != nil {
			return nil, corruptf("postings of bucket %d: %v", size, err)
		}
		if bm.IsEmpty() || uint64(bm.Maximum()) >= n {
			return nil, corruptf("postings of bucket %d reference unknown records", size)
		}
		b.Postings[f] = bm
	}

	if d.off != len(buf) {
		return nil, corruptf("%d trailing bytes in bucket %d", len(buf)-d.off, size)
	}
	return b, nil
}
