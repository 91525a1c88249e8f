package simgo

import (
	"github.com/hupe1980/simgo/internal/compress"
	"github.com/hupe1980/simgo/measure"
	"github.com/hupe1980/simgo/ngram"
)

// Measure selects the similarity function of a query.
type Measure = measure.Measure

const (
	// Exact matches records whose n-gram set equals the query's.
	Exact = measure.Exact
	// Dice is 2·o / (q + x).
	Dice = measure.Dice
	// Cosine is o / sqrt(q·x).
	Cosine = measure.Cosine
	// Jaccard is o / (q + x − o).
	Jaccard = measure.Jaccard
	// Overlap is o / min(q, x).
	Overlap = measure.Overlap
)

// Reference query defaults.
const (
	DefaultMeasure   = Cosine
	DefaultThreshold = 0.7
)

// ParseMeasure parses a measure name such as "cosine".
func ParseMeasure(s string) (Measure, error) {
	m, err := measure.Parse(s)
	return m, translateError(err)
}

// Unit is the slicing granularity of the n-gram generator.
type Unit = ngram.Unit

const (
	// ByteUnit slices strings by byte.
	ByteUnit = ngram.Byte
	// RuneUnit slices strings by Unicode code point.
	RuneUnit = ngram.Rune
)

// Compression selects the block compression of a new index.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// Info describes an open index.
type Info struct {
	Version     uint32
	N           int
	Padding     bool
	Unit        Unit
	Compression Compression
	Records     int
	BucketSizes []int
}
