package ngram

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Marker pads string boundaries and separates occurrence counters.
const Marker = '\x01'

var (
	// ErrInvalidSize is returned when the n-gram length is less than 1.
	ErrInvalidSize = errors.New("ngram: n must be at least 1")

	// ErrInvalidUnit is returned for an unknown unit granularity.
	ErrInvalidUnit = errors.New("ngram: unknown unit")
)

// Unit is the granularity n-grams are sliced at.
type Unit uint8

const (
	// Byte slices strings byte by byte.
	Byte Unit = iota
	// Rune slices strings by Unicode code point. Invalid UTF-8 sequences
	// decode to U+FFFD on both build and query paths.
	Rune
)

func (u Unit) String() string {
	switch u {
	case Byte:
		return "byte"
	case Rune:
		return "rune"
	default:
		return fmt.Sprintf("Unknown(%d)", u)
	}
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return u == Byte || u == Rune
}

// ParseUnit parses "byte" or "rune" (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "byte", "bytes", "char":
		return Byte, nil
	case "rune", "runes", "unicode", "codepoint":
		return Rune, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Generator produces n-gram sets. It is immutable and safe for concurrent use.
type Generator struct {
	n    int
	pad  bool
	unit Unit
}

// New returns a generator for n-grams of length n.
func New(n int, pad bool, unit Unit) (*Generator, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidUnit, unit)
	}
	return &Generator{n: n, pad: pad, unit: unit}, nil
}

// N returns the n-gram length.
func (g *Generator) N() int { return g.n }

// Padding reports whether boundary markers are added.
func (g *Generator) Padding() bool { return g.pad }

// Unit returns the slicing granularity.
func (g *Generator) Unit() Unit { return g.unit }

// Grams returns the n-grams of s in order of appearance, duplicates included.
//
// The empty string yields no grams unless padding is enabled. A non-empty
// string shorter than N without padding is right-padded with markers to
// length N and yields exactly one gram.
func (g *Generator) Grams(s string) []string {
	if s == "" && !g.pad {
		return nil
	}
	if g.unit == Rune {
		return g.runeGrams(s)
	}
	return g.byteGrams(s)
}

func (g *Generator) byteGrams(s string) []string {
	src := s
	if g.pad {
		m := strings.Repeat(string(rune(Marker)), g.n-1)
		src = m + s + m
	} else if len(src) < g.n {
		src += strings.Repeat(string(rune(Marker)), g.n-len(src))
	}
	if len(src) < g.n {
		return nil
	}

	grams := make([]string, 0, len(src)-g.n+1)
	for i := 0; i+g.n <= len(src); i++ {
		grams = append(grams, src[i:i+g.n])
	}
	return grams
}

func (g *Generator) runeGrams(s string) []string {
	runes := []rune(s)
	if g.pad {
		src := make([]rune, 0, len(runes)+2*(g.n-1))
		for range g.n - 1 {
			src = append(src, Marker)
		}
		src = append(src, runes...)
		for range g.n - 1 {
			src = append(src, Marker)
		}
		runes = src
	} else {
		for len(runes) < g.n {
			runes = append(runes, Marker)
		}
	}
	if len(runes) < g.n {
		return nil
	}

	grams := make([]string, 0, len(runes)-g.n+1)
	for i := 0; i+g.n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+g.n]))
	}
	return grams
}

// Generate returns the feature set of s.
func (g *Generator) Generate(s string) Set {
	grams := g.Grams(s)
	if len(grams) == 0 {
		return Set{}
	}

	seen := make(map[string]int, len(grams))
	features := make([]string, 0, len(grams))
	for _, gram := range grams {
		seen[gram]++
		if k := seen[gram]; k > 1 {
			features = append(features, gram+string(rune(Marker))+strconv.Itoa(k))
			continue
		}
		features = append(features, gram)
	}
	slices.Sort(features)
	return Set{features: features}
}

// Size returns the number of features s would produce without generating them.
func (g *Generator) Size(s string) int {
	length := len(s)
	if g.unit == Rune {
		length = len([]rune(s))
	}
	if length == 0 && !g.pad {
		return 0
	}
	if g.pad {
		length += 2 * (g.n - 1)
	} else if length < g.n {
		length = g.n
	}
	if length < g.n {
		return 0
	}
	return length - g.n + 1
}
