package stats

import "math"

// Interval is a credible interval holding the requested probability
// mass.
type Interval struct {
	Lower       float64
	Upper       float64
	Probability float64
}

// CredibleInterval returns the equal-tailed credible interval at the
// given probability (e.g. 0.95 cuts 2.5% from each tail).
func CredibleInterval(xs []float64, probability float64) Interval {
	tail := (1 - probability) / 2 * 100
	return Interval{
		Lower:       Percentile(xs, tail),
		Upper:       Percentile(xs, 100-tail),
		Probability: probability,
	}
}

// HPDInterval returns the highest-posterior-density interval: the
// narrowest span containing ceil(probability*N) samples, found by
// sliding a fixed-size window over the sorted data.
//
// The sliding-window search assumes a unimodal sample; on multimodal
// data it returns the narrowest single interval, which can be
// misleading. Known limitation.
func HPDInterval(xs []float64, probability float64) Interval {
	n := len(xs)
	if n == 0 {
		return Interval{Probability: probability}
	}
	sorted := sortedCopy(xs)

	m := int(math.Ceil(probability * float64(n)))
	if m < 1 {
		m = 1
	}
	if m >= n {
		return Interval{Lower: sorted[0], Upper: sorted[n-1], Probability: probability}
	}

	bestLo := 0
	bestWidth := sorted[m-1] - sorted[0]
	for i := 1; i+m-1 < n; i++ {
		width := sorted[i+m-1] - sorted[i]
		if width < bestWidth {
			bestWidth = width
			bestLo = i
		}
	}
	return Interval{
		Lower:       sorted[bestLo],
		Upper:       sorted[bestLo+m-1],
		Probability: probability,
	}
}
