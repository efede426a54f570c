package stats

import "github.com/pkg/errors"

// PGreater returns the empirical probability P(X > threshold).
func PGreater(xs []float64, threshold float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	count := 0
	for _, x := range xs {
		if x > threshold {
			count++
		}
	}
	return float64(count) / float64(len(xs))
}

// PBetween returns the empirical probability P(lower <= X <= upper).
func PBetween(xs []float64, lower, upper float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	count := 0
	for _, x := range xs {
		if x >= lower && x <= upper {
			count++
		}
	}
	return float64(count) / float64(len(xs))
}

// PGreaterPaired returns the empirical probability P(A > B) from paired
// samples. The vectors must have equal non-zero length: the comparison
// is per draw, not between marginals.
func PGreaterPaired(as, bs []float64) (float64, error) {
	if len(as) != len(bs) {
		return 0, errors.Errorf("stats: paired comparison requires equal lengths, got %d and %d", len(as), len(bs))
	}
	if len(as) == 0 {
		return 0, errors.New("stats: paired comparison requires non-empty samples")
	}
	count := 0
	for i := range as {
		if as[i] > bs[i] {
			count++
		}
	}
	return float64(count) / float64(len(as)), nil
}
