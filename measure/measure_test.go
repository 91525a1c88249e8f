package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureString(t *testing.T) {
	tests := []struct {
		m    Measure
		want string
	}{
		{Exact, "Exact"},
		{Dice, "Dice"},
		{Cosine, "Cosine"},
		{Jaccard, "Jaccard"},
		{Overlap, "Overlap"},
		{Measure(42), "Unknown(42)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.String())
	}
}

func TestParse(t *testing.T) {
	for _, m := range All {
		got, err := Parse(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := Parse("levenshtein")
	assert.ErrorIs(t, err, ErrUnknownMeasure)

	var m Measure
	require.NoError(t, m.UnmarshalText([]byte("jaccard")))
	assert.Equal(t, Jaccard, m)

	b, err := Cosine.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cosine", string(b))

	_, err = Measure(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownMeasure)
}

func TestValidateThreshold(t *testing.T) {
	for _, v := range []float64{0.01, 0.5, 1} {
		assert.NoError(t, ValidateThreshold(v))
	}
	for _, v := range []float64{0, -0.1, 1.0001, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, ValidateThreshold(v), ErrInvalidThreshold)
	}

	assert.ErrorIs(t, Validate(Measure(7), 0.5), ErrUnknownMeasure)
	assert.NoError(t, Validate(Exact, 0.3))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		m       Measure
		q, x, o int
		want    float64
	}{
		{"dice", Dice, 3, 3, 2, 2.0 / 3.0},
		{"cosine", Cosine, 4, 9, 3, 0.5},
		{"jaccard", Jaccard, 4, 4, 2, 1.0 / 3.0},
		{"overlap", Overlap, 2, 10, 2, 1},
		{"exact equal", Exact, 5, 5, 5, 1},
		{"exact differs", Exact, 5, 5, 4, 0},
		{"both empty", Cosine, 0, 0, 0, 1},
		{"query empty", Dice, 0, 3, 0, 0},
		{"candidate empty", Jaccard, 3, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.m.Similarity(tt.q, tt.x, tt.o), 1e-12)
			assert.InDelta(t, tt.want, tt.m.Scorer(tt.q)(tt.x, tt.o), 1e-12)
		})
	}
}

func TestSelfSimilarity(t *testing.T) {
	for _, m := range All {
		for q := 1; q <= 50; q++ {
			assert.Equal(t, 1.0, m.Similarity(q, q, q), "%s q=%d", m, q)
		}
	}
}

// TestSizeBoundsConservative substitutes every size around the derived
// interval and checks that nothing outside it can reach the threshold while
// the boundary sizes themselves remain reachable.
func TestSizeBoundsConservative(t *testing.T) {
	thresholds := []float64{0.1, 0.3, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1}
	for _, m := range All {
		for _, th := range thresholds {
			for q := 1; q <= 40; q++ {
				lo, hi := m.SizeBounds(q, th)
				require.GreaterOrEqual(t, lo, 1)
				require.LessOrEqual(t, lo, hi)

				for x := 1; x <= 4*q+10; x++ {
					best := m.Similarity(q, x, min(q, x))
					if x < lo || x > hi {
						assert.Less(t, best, th, "%s q=%d x=%d t=%v outside [%d,%d]", m, q, x, th, lo, hi)
					}
				}
				assert.GreaterOrEqual(t, m.Similarity(q, lo, min(q, lo)), th, "%s q=%d lo=%d t=%v", m, q, lo, th)
				if hi != math.MaxInt {
					assert.GreaterOrEqual(t, m.Similarity(q, hi, min(q, hi)), th, "%s q=%d hi=%d t=%v", m, q, hi, th)
				}
			}
		}
	}
}

func TestMinOverlapIsTight(t *testing.T) {
	thresholds := []float64{0.2, 0.5, 0.6, 0.7, 0.85, 1}
	for _, m := range All {
		for _, th := range thresholds {
			for q := 1; q <= 25; q++ {
				for x := 1; x <= 40; x++ {
					o := m.MinOverlap(q, x, th)
					limit := min(q, x)
					if o <= limit {
						assert.True(t, m.Match(q, x, o, th), "%s q=%d x=%d o=%d", m, q, x, o)
					}
					if o > 0 && o-1 <= limit {
						assert.False(t, m.Match(q, x, o-1, th), "%s q=%d x=%d o=%d", m, q, x, o)
					}
				}
			}
		}
	}
}

func TestMinOverlapEmpty(t *testing.T) {
	assert.Equal(t, 0, Dice.MinOverlap(0, 0, 0.5))
	assert.Equal(t, 1, Dice.MinOverlap(0, 3, 0.5))
	assert.Equal(t, 1, Dice.MinOverlap(3, 0, 0.5))

	lo, hi := Jaccard.SizeBounds(0, 0.5)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 0, hi)
}

func TestExactIgnoresThresholdValue(t *testing.T) {
	for _, th := range []float64{0.1, 1} {
		lo, hi := Exact.SizeBounds(7, th)
		assert.Equal(t, 7, lo)
		assert.Equal(t, 7, hi)
		assert.Equal(t, 7, Exact.MinOverlap(7, 7, th))
		assert.Equal(t, 7, Exact.MinOverlap(7, 6, th))
	}
}
