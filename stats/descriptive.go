// Package stats provides descriptive statistics, credible intervals,
// and density estimation over raw sample vectors and matrices.
//
// Every function is pure and stateless: inputs are never mutated (sorts
// happen on copies) and there is no shared state, so the package is safe
// to call from any number of goroutines. Degenerate inputs (too few
// samples, zero variance) return zero values rather than NaN so that
// downstream rendering never has to special-case them.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or 0 for an empty vector.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Variance returns the unbiased sample variance (N-1 denominator), or 0
// when fewer than two samples are supplied.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(xs, nil)
}

// StdDev returns the unbiased sample standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Median returns the middle value, averaging the central pair for
// even-length input.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile (0 <= p <= 100) by linear
// interpolation between order statistics.
func Percentile(xs []float64, p float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(xs)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Skewness returns the bias-corrected sample skewness
// n/((n-1)(n-2)) * sum(((x-mean)/s)^3). It returns 0 for fewer than
// three samples or zero variance.
func Skewness(xs []float64) float64 {
	n := float64(len(xs))
	if n < 3 {
		return 0
	}
	mean := Mean(xs)
	s := StdDev(xs)
	if s == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		z := (x - mean) / s
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// Kurtosis returns the bias-corrected excess kurtosis. It returns 0 for
// fewer than four samples or zero variance.
func Kurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if n < 4 {
		return 0
	}
	mean := Mean(xs)
	s := StdDev(xs)
	if s == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		z := (x - mean) / s
		sum += z * z * z * z
	}
	a := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	b := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return a*sum - b
}

// defaultModeBins is the histogram resolution used by Mode.
const defaultModeBins = 20

// Mode estimates the empirical mode as the center of the most populated
// histogram bin (20 equal-width bins). Constant data returns the
// constant.
func Mode(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	lo, hi := minMax(xs)
	if lo == hi {
		return lo
	}

	width := (hi - lo) / defaultModeBins
	counts := make([]int, defaultModeBins)
	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= defaultModeBins {
			i = defaultModeBins - 1
		}
		counts[i]++
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return lo + (float64(best)+0.5)*width
}

func sortedCopy(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
