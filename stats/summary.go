package stats

import "math"

// PercentileLevels are the percentile levels reported by Compute.
var PercentileLevels = []float64{1, 5, 10, 25, 50, 75, 90, 95, 99}

// SampleStatistics summarizes a sample matrix (rows = retained
// iterations, columns = variables). All slices are indexed by column.
// Built once by Compute and never mutated afterwards.
type SampleStatistics struct {
	N           int
	Mean        []float64
	Variance    []float64
	StdDev      []float64
	Skewness    []float64
	Kurtosis    []float64
	Percentiles map[float64][]float64
	Correlation [][]float64
}

// Compute runs the full descriptive pass over a sample matrix: moments
// per column, the standard percentile levels, and the correlation
// matrix.
func Compute(matrix [][]float64) *SampleStatistics {
	cols := Columns(matrix)
	k := len(cols)

	out := &SampleStatistics{
		N:           len(matrix),
		Mean:        make([]float64, k),
		Variance:    make([]float64, k),
		StdDev:      make([]float64, k),
		Skewness:    make([]float64, k),
		Kurtosis:    make([]float64, k),
		Percentiles: make(map[float64][]float64, len(PercentileLevels)),
		Correlation: CorrelationMatrix(matrix),
	}
	for _, level := range PercentileLevels {
		out.Percentiles[level] = make([]float64, k)
	}

	for j, col := range cols {
		out.Mean[j] = Mean(col)
		out.Variance[j] = Variance(col)
		out.StdDev[j] = StdDev(col)
		out.Skewness[j] = Skewness(col)
		out.Kurtosis[j] = Kurtosis(col)
		sorted := sortedCopy(col)
		for _, level := range PercentileLevels {
			out.Percentiles[level][j] = percentileSorted(sorted, level)
		}
	}
	return out
}

// percentileSorted is Percentile over already-sorted data, so Compute
// sorts each column once instead of once per level.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
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

// EffectiveSampleSize estimates the number of independent-equivalent
// samples in a possibly autocorrelated sequence using the lag-1
// integrated autocorrelation time tau = 1 + 2*max(0, acf(1)). The
// result is floored at 1 and never exceeds len(xs).
func EffectiveSampleSize(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return float64(n)
	}
	acf1 := lag1Autocorrelation(xs)
	tau := 1 + 2*math.Max(0, acf1)
	ess := float64(n) / tau
	if ess < 1 {
		return 1
	}
	if ess > float64(n) {
		return float64(n)
	}
	return ess
}

// StandardError returns the Monte Carlo standard error of the mean,
// stddev / sqrt(ESS).
func StandardError(xs []float64) float64 {
	ess := EffectiveSampleSize(xs)
	if ess == 0 {
		return 0
	}
	return StdDev(xs) / math.Sqrt(ess)
}

func lag1Autocorrelation(xs []float64) float64 {
	n := len(xs)
	mean := Mean(xs)
	var num, den float64
	for i := 0; i < n; i++ {
		d := xs[i] - mean
		den += d * d
		if i+1 < n {
			num += d * (xs[i+1] - mean)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}
