package convergence

import (
	"fmt"
	"math"
	"strings"
)

// Thresholds configures the convergence assessment.
type Thresholds struct {
	// GewekeMax is the largest acceptable |z|.
	GewekeMax float64
	// RHatMax is the largest acceptable potential scale reduction.
	RHatMax float64
	// MinESSRatio is the smallest acceptable ESS/N per variable.
	MinESSRatio float64
	// MinSamples is the floor below which convergence cannot be
	// assessed at all.
	MinSamples int
}

// DefaultThresholds returns the standard assessment criteria.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GewekeMax:   2.0,
		RHatMax:     1.1,
		MinESSRatio: 0.1,
		MinSamples:  100,
	}
}

// Assessment is the verdict of a convergence check.
type Assessment struct {
	Converged  bool
	Confidence float64
	Reason     string
}

// Assess applies the thresholds to a sample matrix and returns a
// verdict. Below the minimum sample floor it reports non-convergence
// with an "insufficient samples" reason rather than guessing.
func Assess(samples [][]float64, th *Thresholds) Assessment {
	t := DefaultThresholds()
	if th != nil {
		t = *th
	}

	n := len(samples)
	if n < t.MinSamples {
		return Assessment{
			Converged:  false,
			Confidence: 0,
			Reason:     fmt.Sprintf("Insufficient samples: %d < %d", n, t.MinSamples),
		}
	}

	cols := columns(samples)
	var failures []string
	confidence := 1.0
	for j, col := range cols {
		z := Geweke(col)
		if math.Abs(z) > t.GewekeMax {
			failures = append(failures, fmt.Sprintf("variable %d: |Geweke z|=%.2f exceeds %.2f", j, math.Abs(z), t.GewekeMax))
		}
		confidence *= score(math.Abs(z), t.GewekeMax)

		r := RHat(col)
		if r > t.RHatMax {
			failures = append(failures, fmt.Sprintf("variable %d: R-hat=%.3f exceeds %.3f", j, r, t.RHatMax))
		}
		confidence *= score(r-1, t.RHatMax-1)

		ratio := EffectiveSampleSize(col) / float64(n)
		if ratio < t.MinESSRatio {
			failures = append(failures, fmt.Sprintf("variable %d: ESS ratio %.3f below %.3f", j, ratio, t.MinESSRatio))
		}
	}

	if len(failures) > 0 {
		return Assessment{
			Converged:  false,
			Confidence: confidence,
			Reason:     strings.Join(failures, "; "),
		}
	}
	return Assessment{
		Converged:  true,
		Confidence: confidence,
		Reason:     "all diagnostics within thresholds",
	}
}

// score maps a diagnostic value to (0, 1], 1 when the value is far
// inside its threshold and decaying as it approaches or exceeds it.
func score(value, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	return math.Exp(-math.Max(0, value/threshold) * math.Ln2)
}

// Diagnostics bundles the full diagnostic pass over a sample matrix.
// Slices are indexed by variable column. Built once, never mutated.
type Diagnostics struct {
	EffectiveSampleSize []float64
	MinESS              float64
	MinESSVariable      int
	Geweke              []float64
	RHat                []float64
	MCSE                []float64
	Autocorrelation     [][]float64
	Assessment          Assessment
}

// Compute runs every diagnostic over the matrix and bundles the result.
func Compute(matrix [][]float64, th *Thresholds) *Diagnostics {
	cols := columns(matrix)
	k := len(cols)

	d := &Diagnostics{
		EffectiveSampleSize: make([]float64, k),
		Geweke:              make([]float64, k),
		RHat:                make([]float64, k),
		MCSE:                make([]float64, k),
		Autocorrelation:     make([][]float64, k),
	}
	for j, col := range cols {
		d.EffectiveSampleSize[j] = EffectiveSampleSize(col)
		d.Geweke[j] = Geweke(col)
		d.RHat[j] = RHat(col)
		d.MCSE[j] = MCSE(col)
		d.Autocorrelation[j] = Autocorrelation(col, 0)
	}
	d.MinESS, d.MinESSVariable = MinEffectiveSampleSize(matrix)
	d.Assessment = Assess(matrix, th)
	return d
}

// Trace holds running (cumulative) statistics of a single chain,
// step by step.
type Trace struct {
	RunningMean     []float64
	RunningVariance []float64
	// Stabilized reports whether the running mean settled: low
	// relative change over the trailing window.
	Stabilized bool
}

// traceWindowFraction and traceStableTolerance define "settled": the
// running mean over the last tenth of the chain moved less than 1%
// relative to its scale.
const (
	traceWindowFraction  = 0.1
	traceStableTolerance = 0.01
)

// TraceStatistics computes running mean and variance per step using
// Welford's update, which stays numerically stable for long chains, and
// flags whether the running mean has visually stabilized.
func TraceStatistics(xs []float64) *Trace {
	n := len(xs)
	tr := &Trace{
		RunningMean:     make([]float64, n),
		RunningVariance: make([]float64, n),
	}
	mean := 0.0
	m2 := 0.0
	for i, x := range xs {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
		tr.RunningMean[i] = mean
		if i > 0 {
			tr.RunningVariance[i] = m2 / float64(i)
		}
	}

	window := int(float64(n) * traceWindowFraction)
	if window < 2 || n == 0 {
		return tr
	}
	final := tr.RunningMean[n-1]
	scale := math.Abs(final)
	if scale < 1 {
		scale = 1
	}
	maxDelta := 0.0
	for _, m := range tr.RunningMean[n-window:] {
		if d := math.Abs(m - final); d > maxDelta {
			maxDelta = d
		}
	}
	tr.Stabilized = maxDelta/scale < traceStableTolerance
	return tr
}

// Summary is a human-readable digest of a diagnostic pass.
type Summary struct {
	Issues          []string
	Recommendations []string
}

// GenerateSummary turns a Diagnostics bundle into issue and
// recommendation lists for report rendering.
func GenerateSummary(d *Diagnostics, sampleCount int) *Summary {
	s := &Summary{}

	if sampleCount < DefaultThresholds().MinSamples {
		s.Issues = append(s.Issues, "Low sample count")
		s.Recommendations = append(s.Recommendations, "Increase iterations to at least 1000 for reliable diagnostics")
	}
	for j, r := range d.RHat {
		if r > DefaultThresholds().RHatMax {
			s.Issues = append(s.Issues, fmt.Sprintf("Variable %d shows poor mixing (R-hat %.3f)", j, r))
			s.Recommendations = append(s.Recommendations, "Increase burn-in or run additional chains")
			break
		}
	}
	for j, z := range d.Geweke {
		if math.Abs(z) > DefaultThresholds().GewekeMax {
			s.Issues = append(s.Issues, fmt.Sprintf("Variable %d may be non-stationary (Geweke z %.2f)", j, z))
			s.Recommendations = append(s.Recommendations, "Increase burn-in")
			break
		}
	}
	if sampleCount > 0 && d.MinESS/float64(sampleCount) < DefaultThresholds().MinESSRatio {
		s.Issues = append(s.Issues, fmt.Sprintf("High autocorrelation on variable %d (ESS %.0f of %d)", d.MinESSVariable, d.MinESS, sampleCount))
		s.Recommendations = append(s.Recommendations, "Increase thinning to reduce serial correlation")
	}
	if len(s.Issues) == 0 {
		s.Recommendations = append(s.Recommendations, "Diagnostics look healthy; results are usable as-is")
	}
	return s
}
