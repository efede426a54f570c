// Package convergence implements MCMC-style convergence diagnostics
// over one or more sample chains: autocorrelation, effective sample
// size, the Geweke z-score, potential scale reduction (R-hat), and
// Monte Carlo standard error.
//
// All functions are pure and degrade gracefully: chains too short to
// assess yield neutral values (Geweke 0, R-hat 1) instead of errors, so
// downstream consumers never crash on small runs.
package convergence

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// defaultMaxLag bounds the autocorrelation window when the caller does
// not supply one: a quarter of the chain, capped at 100 lags.
func defaultMaxLag(n int) int {
	lag := n / 4
	if lag > 100 {
		lag = 100
	}
	if lag < 1 {
		lag = 1
	}
	return lag
}

// Autocorrelation returns the autocorrelation function of xs for lags
// 0..maxLag. Lag 0 is always 1. A maxLag <= 0 selects a default window
// small relative to the chain length. Zero-variance chains return all
// zeros past lag 0.
func Autocorrelation(xs []float64, maxLag int) []float64 {
	n := len(xs)
	if n == 0 {
		return nil
	}
	if maxLag <= 0 {
		maxLag = defaultMaxLag(n)
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(xs, nil)
	den := 0.0
	for _, x := range xs {
		d := x - mean
		den += d * d
	}

	acf := make([]float64, maxLag+1)
	acf[0] = 1
	if den == 0 {
		return acf
	}
	for lag := 1; lag <= maxLag; lag++ {
		num := 0.0
		for i := 0; i+lag < n; i++ {
			num += (xs[i] - mean) * (xs[i+lag] - mean)
		}
		acf[lag] = num / den
	}
	return acf
}

// IntegratedAutocorrelationTime returns tau = 1 + 2*sum(acf(k)),
// truncating the sum at the first non-positive autocorrelation
// (initial-positive-sequence rule). Independent chains give tau near 1.
func IntegratedAutocorrelationTime(xs []float64, maxLag int) float64 {
	acf := Autocorrelation(xs, maxLag)
	tau := 1.0
	for _, a := range acf[1:] {
		if a <= 0 {
			break
		}
		tau += 2 * a
	}
	return tau
}

// EffectiveSampleSize returns N/tau clamped to [1, N].
func EffectiveSampleSize(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return float64(n)
	}
	ess := float64(n) / IntegratedAutocorrelationTime(xs, 0)
	if ess < 1 {
		return 1
	}
	if ess > float64(n) {
		return float64(n)
	}
	return ess
}

// EffectiveSampleSizes returns the per-column ESS of a sample matrix.
func EffectiveSampleSizes(matrix [][]float64) []float64 {
	cols := columns(matrix)
	out := make([]float64, len(cols))
	for j, col := range cols {
		out[j] = EffectiveSampleSize(col)
	}
	return out
}

// MinEffectiveSampleSize returns the worst-case per-variable ESS and
// the index of the offending column. An empty matrix reports (0, -1).
func MinEffectiveSampleSize(matrix [][]float64) (float64, int) {
	sizes := EffectiveSampleSizes(matrix)
	if len(sizes) == 0 {
		return 0, -1
	}
	worst := 0
	for j, s := range sizes {
		if s < sizes[worst] {
			worst = j
		}
	}
	return sizes[worst], worst
}

// gewekeMinSamples is the chain length below which the Geweke statistic
// is meaningless and reported as 0.
const gewekeMinSamples = 100

// Geweke returns the z-score comparing the mean of the first 10% of the
// chain against the mean of the last 50%, normalized by the pooled
// standard error. Values beyond roughly |2| indicate the chain had not
// reached its stationary regime. Chains shorter than 100 samples return
// 0 (too short to assess).
func Geweke(xs []float64) float64 {
	n := len(xs)
	if n < gewekeMinSamples {
		return 0
	}

	early := xs[:n/10]
	late := xs[n-n/2:]

	meanA := stat.Mean(early, nil)
	meanB := stat.Mean(late, nil)
	varA := stat.Variance(early, nil)
	varB := stat.Variance(late, nil)

	se := math.Sqrt(varA/float64(len(early)) + varB/float64(len(late)))
	if se == 0 {
		return 0
	}
	return (meanA - meanB) / se
}

// RHat is the single-chain proxy for the potential scale reduction
// statistic: the chain is split in half and the halves compared as if
// they were independent chains. Chains shorter than 4 samples return 1.
func RHat(xs []float64) float64 {
	n := len(xs)
	if n < 4 {
		return 1
	}
	half := n / 2
	return RHatChains([][]float64{xs[:half], xs[half : 2*half]})
}

// RHatChains computes the classic potential scale reduction statistic
// across two or more chains. It returns exactly 1 for fewer than two
// chains, trends toward 1 for well-mixed chains, and grows with
// inter-chain disagreement. Chains are truncated to the shortest
// length.
func RHatChains(chains [][]float64) float64 {
	m := len(chains)
	if m < 2 {
		return 1
	}
	n := len(chains[0])
	for _, c := range chains[1:] {
		if len(c) < n {
			n = len(c)
		}
	}
	if n < 2 {
		return 1
	}

	means := make([]float64, m)
	within := 0.0
	for j, c := range chains {
		c = c[:n]
		means[j] = stat.Mean(c, nil)
		within += stat.Variance(c, nil)
	}
	within /= float64(m)
	if within == 0 {
		return 1
	}

	// B/n is the variance of the chain means.
	betweenOverN := stat.Variance(means, nil)
	varPlus := float64(n-1)/float64(n)*within + betweenOverN
	return math.Sqrt(varPlus / within)
}

// MCSE returns the Monte Carlo standard error of the chain mean,
// stddev/sqrt(ESS), accounting for autocorrelation through the
// integrated autocorrelation time.
func MCSE(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	ess := EffectiveSampleSize(xs)
	if ess == 0 {
		return 0
	}
	return math.Sqrt(stat.Variance(xs, nil) / ess)
}

// MCSEs returns the per-column Monte Carlo standard errors.
func MCSEs(matrix [][]float64) []float64 {
	cols := columns(matrix)
	out := make([]float64, len(cols))
	for j, col := range cols {
		out[j] = MCSE(col)
	}
	return out
}

func columns(matrix [][]float64) [][]float64 {
	if len(matrix) == 0 {
		return nil
	}
	k := len(matrix[0])
	cols := make([][]float64, k)
	for j := range cols {
		cols[j] = make([]float64, len(matrix))
		for i, row := range matrix {
			cols[j][i] = row[j]
		}
	}
	return cols
}
