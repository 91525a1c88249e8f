package measure

import "math"

// slack widens floating-point bounds so that rounding never turns an
// inclusive boundary into an exclusive one.
func slack(v float64) float64 {
	return 1e-9 * (1 + math.Abs(v))
}

func ceilBound(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v - slack(v)))
}

func floorBound(v float64) int {
	if math.IsInf(v, 1) || v >= math.MaxInt32 {
		return math.MaxInt
	}
	return int(math.Floor(v + slack(v)))
}

// SizeBounds returns the inclusive interval [lo, hi] of candidate set sizes
// that can reach threshold t against a query of size q. Sizes outside the
// interval can never match. hi is math.MaxInt when the measure puts no upper
// limit on candidate size.
//
// An empty query can only match empty candidates, so the interval is [0, 0].
func (m Measure) SizeBounds(q int, t float64) (lo, hi int) {
	if q <= 0 {
		return 0, 0
	}

	fq := float64(q)
	switch m {
	case Exact:
		return q, q
	case Dice:
		lo, hi = ceilBound(t*fq/(2-t)), floorBound((2-t)*fq/t)
	case Cosine:
		lo, hi = ceilBound(t*t*fq), floorBound(fq/(t*t))
	case Jaccard:
		lo, hi = ceilBound(t*fq), floorBound(fq/t)
	case Overlap:
		lo, hi = 1, math.MaxInt
	default:
		return 1, 0
	}

	return max(lo, 1), hi
}

// MinOverlap returns the smallest overlap o such that a query of size q and a
// candidate of size x reach threshold t. A result greater than min(q, x)
// means no candidate of size x can match.
func (m Measure) MinOverlap(q, x int, t float64) int {
	if q == 0 || x == 0 {
		if q == 0 && x == 0 {
			return 0
		}
		return 1
	}

	limit := min(q, x)
	fq, fx := float64(q), float64(x)

	var est float64
	switch m {
	case Exact:
		if q != x {
			return limit + 1
		}
		return q
	case Dice:
		est = 0.5 * t * (fq + fx)
	case Cosine:
		est = t * math.Sqrt(fq*fx)
	case Jaccard:
		est = t * (fq + fx) / (1 + t)
	case Overlap:
		est = t * float64(limit)
	default:
		return limit + 1
	}

	o := min(max(ceilBound(est), 0), limit+1)

	// The closed form can be off by one under rounding; settle on the exact
	// boundary using the similarity itself.
	for o > 0 && m.Match(q, x, o-1, t) {
		o--
	}
	for o <= limit && !m.Match(q, x, o, t) {
		o++
	}
	return o
}
