package measure

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownMeasure is returned for measure identifiers outside the enum.
	ErrUnknownMeasure = errors.New("measure: unknown measure")

	// ErrInvalidThreshold is returned when a threshold is outside (0, 1].
	ErrInvalidThreshold = errors.New("measure: threshold must be in (0, 1]")
)

// Measure identifies a similarity measure.
type Measure uint8

const (
	// Exact matches only identical feature sets.
	Exact Measure = iota
	// Dice is the Dice coefficient.
	Dice
	// Cosine is the set cosine similarity.
	Cosine
	// Jaccard is the Jaccard index.
	Jaccard
	// Overlap is the overlap coefficient.
	Overlap
)

// All lists every supported measure in enum order.
var All = []Measure{Exact, Dice, Cosine, Jaccard, Overlap}

// String returns the string representation of the measure.
func (m Measure) String() string {
	switch m {
	case Exact:
		return "Exact"
	case Dice:
		return "Dice"
	case Cosine:
		return "Cosine"
	case Jaccard:
		return "Jaccard"
	case Overlap:
		return "Overlap"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Valid reports whether m is a supported measure.
func (m Measure) Valid() bool {
	return m <= Overlap
}

// Parse parses a measure name (case-insensitive).
func Parse(s string) (Measure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return Exact, nil
	case "dice":
		return Dice, nil
	case "cosine":
		return Cosine, nil
	case "jaccard":
		return Jaccard, nil
	case "overlap":
		return Overlap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Measure) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMeasure, m)
	}
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Measure) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Validate checks the measure and the threshold together.
func Validate(m Measure, t float64) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMeasure, m)
	}
	return ValidateThreshold(t)
}

// ValidateThreshold rejects thresholds outside (0, 1] and NaN.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t <= 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}

// Similarity returns the similarity of a query set of size q and a candidate
// set of size x sharing o features.
func (m Measure) Similarity(q, x, o int) float64 {
	if q == 0 || x == 0 {
		if q == 0 && x == 0 {
			return 1
		}
		return 0
	}

	switch m {
	case Exact:
		if q == x && o == q {
			return 1
		}
		return 0
	case Dice:
		return 2 * float64(o) / float64(q+x)
	case Cosine:
		return float64(o) / math.Sqrt(float64(q)*float64(x))
	case Jaccard:
		return float64(o) / float64(q+x-o)
	case Overlap:
		return float64(o) / float64(min(q, x))
	default:
		return 0
	}
}

// Match reports whether the similarity reaches t.
func (m Measure) Match(q, x, o int, t float64) bool {
	return m.Similarity(q, x, o) >= t
}

// Scorer returns the similarity function of m specialised for a query of
// size q. The measure switch happens once, not per candidate.
func (m Measure) Scorer(q int) func(x, o int) float64 {
	fq := float64(q)
	empty := func(x int) float64 {
		if x == 0 {
			return 1
		}
		return 0
	}
	if q == 0 {
		return func(x, _ int) float64 { return empty(x) }
	}

	switch m {
	case Exact:
		return func(x, o int) float64 {
			if x == q && o == q {
				return 1
			}
			return 0
		}
	case Dice:
		return func(x, o int) float64 {
			if x == 0 {
				return 0
			}
			return 2 * float64(o) / (fq + float64(x))
		}
	case Cosine:
		return func(x, o int) float64 {
			if x == 0 {
				return 0
			}
			return float64(o) / math.Sqrt(fq*float64(x))
		}
	case Jaccard:
		return func(x, o int) float64 {
			if x == 0 {
				return 0
			}
			return float64(o) / float64(q+x-o)
		}
	case Overlap:
		return func(x, o int) float64 {
			if x == 0 {
				return 0
			}
			return float64(o) / float64(min(q, x))
		}
	default:
		return func(int, int) float64 { return 0 }
	}
}
