package convergence_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simkit/mc/convergence"
	"github.com/simkit/mc/random"
)

func iidNormal(seed uint32, n int, mean, std float64) []float64 {
	src := random.New(seed)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = src.Normal(mean, std)
	}
	return xs
}

func ar1(seed uint32, n int, rho float64) []float64 {
	src := random.New(seed)
	xs := make([]float64, n)
	for i := 1; i < n; i++ {
		xs[i] = rho*xs[i-1] + math.Sqrt(1-rho*rho)*src.Normal(0, 1)
	}
	return xs
}

func asMatrix(xs []float64) [][]float64 {
	matrix := make([][]float64, len(xs))
	for i, x := range xs {
		matrix[i] = []float64{x}
	}
	return matrix
}

func TestAutocorrelation(t *testing.T) {
	xs := iidNormal(1, 5000, 0, 1)
	acf := convergence.Autocorrelation(xs, 20)
	require.Len(t, acf, 21)

	assert.Equal(t, 1.0, acf[0], "lag 0 is always 1")
	for lag := 1; lag <= 20; lag++ {
		assert.Less(t, math.Abs(acf[lag]), 0.05, "iid chain, lag %d", lag)
	}

	// An AR(1) chain decays geometrically.
	ys := ar1(2, 20000, 0.8)
	acfY := convergence.Autocorrelation(ys, 5)
	assert.InDelta(t, 0.8, acfY[1], 0.05)
	assert.InDelta(t, 0.64, acfY[2], 0.05)
}

func TestAutocorrelationDegenerate(t *testing.T) {
	acf := convergence.Autocorrelation([]float64{3, 3, 3, 3}, 2)
	assert.Equal(t, []float64{1, 0, 0}, acf)

	assert.Nil(t, convergence.Autocorrelation(nil, 5))
}

func TestEffectiveSampleSizeBound(t *testing.T) {
	xs := iidNormal(3, 2000, 0, 1)
	ess := convergence.EffectiveSampleSize(xs)
	assert.LessOrEqual(t, ess, float64(len(xs)))
	assert.Greater(t, ess, 1000.0)

	ys := ar1(4, 2000, 0.9)
	essY := convergence.EffectiveSampleSize(ys)
	assert.LessOrEqual(t, essY, float64(len(ys)))
	assert.Less(t, essY, ess/3, "autocorrelated chain has far fewer effective samples")

	assert.GreaterOrEqual(t, convergence.EffectiveSampleSize([]float64{1}), 1.0)
}

func TestMinEffectiveSampleSize(t *testing.T) {
	iid := iidNormal(5, 1000, 0, 1)
	corr := ar1(6, 1000, 0.95)

	matrix := make([][]float64, 1000)
	for i := range matrix {
		matrix[i] = []float64{iid[i], corr[i]}
	}

	minESS, worst := convergence.MinEffectiveSampleSize(matrix)
	assert.Equal(t, 1, worst, "the AR(1) column should be the bottleneck")
	assert.Greater(t, minESS, 0.0)

	_, none := convergence.MinEffectiveSampleSize(nil)
	assert.Equal(t, -1, none)
}

func TestGeweke(t *testing.T) {
	// Stationary chain: |z| should be small.
	xs := iidNormal(7, 5000, 10, 2)
	assert.Less(t, math.Abs(convergence.Geweke(xs)), 3.0)

	// A strongly trending chain is flagged.
	trend := make([]float64, 2000)
	src := random.New(8)
	for i := range trend {
		trend[i] = float64(i)*0.01 + src.Normal(0, 1)
	}
	assert.Greater(t, math.Abs(convergence.Geweke(trend)), 4.0)

	// Too short to assess.
	assert.Equal(t, 0.0, convergence.Geweke(iidNormal(9, 99, 0, 1)))
	assert.Equal(t, 0.0, convergence.Geweke([]float64{1, 1, 1}))
}

func TestRHatSingleChain(t *testing.T) {
	xs := iidNormal(10, 2000, 0, 1)
	r := convergence.RHat(xs)
	assert.InDelta(t, 1.0, r, 0.1)

	assert.Equal(t, 1.0, convergence.RHat([]float64{1, 2}))
}

func TestRHatChains(t *testing.T) {
	a := iidNormal(11, 500, 0, 1)
	b := iidNormal(12, 500, 0, 1)

	r := convergence.RHatChains([][]float64{a, b})
	assert.InDelta(t, 1.0, r, 0.1, "same-distribution chains")

	// Chains whose means differ by 10 standard deviations must be
	// flagged.
	c := iidNormal(13, 500, 10, 1)
	rBad := convergence.RHatChains([][]float64{a, c})
	assert.Greater(t, rBad, 1.1)

	assert.Equal(t, 1.0, convergence.RHatChains([][]float64{a}), "single chain is exactly 1")
	assert.Equal(t, 1.0, convergence.RHatChains(nil))
}

func TestRHatChainsUnequalLengths(t *testing.T) {
	a := iidNormal(14, 600, 0, 1)
	b := iidNormal(15, 500, 0, 1)
	r := convergence.RHatChains([][]float64{a, b})
	assert.InDelta(t, 1.0, r, 0.1)
}

func TestMCSE(t *testing.T) {
	xs := iidNormal(16, 10000, 0, 2)
	// Independent chain: MCSE approx sigma/sqrt(N) = 0.02.
	assert.InDelta(t, 0.02, convergence.MCSE(xs), 0.01)

	assert.Equal(t, 0.0, convergence.MCSE([]float64{5}))
}

func TestAssessInsufficientSamples(t *testing.T) {
	matrix := asMatrix(iidNormal(17, 50, 0, 1))
	a := convergence.Assess(matrix, nil)

	assert.False(t, a.Converged)
	assert.Contains(t, a.Reason, "Insufficient")
	assert.Equal(t, 0.0, a.Confidence)
}

func TestAssessHealthyChain(t *testing.T) {
	matrix := asMatrix(iidNormal(18, 5000, 0, 1))
	a := convergence.Assess(matrix, nil)

	assert.True(t, a.Converged, "reason: %s", a.Reason)
	assert.Greater(t, a.Confidence, 0.0)
}

func TestAssessTrendingChain(t *testing.T) {
	src := random.New(19)
	xs := make([]float64, 2000)
	for i := range xs {
		xs[i] = float64(i)*0.05 + src.Normal(0, 1)
	}
	a := convergence.Assess(asMatrix(xs), nil)
	assert.False(t, a.Converged)
	assert.NotEmpty(t, a.Reason)
}

func TestAssessCustomThresholds(t *testing.T) {
	matrix := asMatrix(iidNormal(20, 200, 0, 1))
	strict := &convergence.Thresholds{
		GewekeMax:   2,
		RHatMax:     1.1,
		MinESSRatio: 0.1,
		MinSamples:  500,
	}
	a := convergence.Assess(matrix, strict)
	assert.False(t, a.Converged)
	assert.True(t, strings.Contains(a.Reason, "Insufficient"))
}

func TestCompute(t *testing.T) {
	iid := iidNormal(21, 3000, 1, 1)
	corr := ar1(22, 3000, 0.7)
	matrix := make([][]float64, 3000)
	for i := range matrix {
		matrix[i] = []float64{iid[i], corr[i]}
	}

	d := convergence.Compute(matrix, nil)
	require.NotNil(t, d)

	require.Len(t, d.EffectiveSampleSize, 2)
	assert.Greater(t, d.EffectiveSampleSize[0], 0.0)
	assert.Greater(t, d.EffectiveSampleSize[1], 0.0)
	assert.Equal(t, 1, d.MinESSVariable)
	require.Len(t, d.RHat, 2)
	require.Len(t, d.Geweke, 2)
	require.Len(t, d.MCSE, 2)
	require.Len(t, d.Autocorrelation, 2)
	assert.Equal(t, 1.0, d.Autocorrelation[0][0])
	assert.True(t, d.Assessment.Converged, "reason: %s", d.Assessment.Reason)
}

func TestTraceStatistics(t *testing.T) {
	xs := iidNormal(23, 10000, 5, 1)
	tr := convergence.TraceStatistics(xs)
	require.Len(t, tr.RunningMean, len(xs))
	require.Len(t, tr.RunningVariance, len(xs))

	assert.Equal(t, xs[0], tr.RunningMean[0])
	assert.InDelta(t, 5.0, tr.RunningMean[len(xs)-1], 0.05)
	assert.InDelta(t, 1.0, tr.RunningVariance[len(xs)-1], 0.1)
	assert.True(t, tr.Stabilized)

	// A drifting chain never settles.
	drift := make([]float64, 1000)
	for i := range drift {
		drift[i] = float64(i)
	}
	assert.False(t, convergence.TraceStatistics(drift).Stabilized)
}

func TestGenerateSummary(t *testing.T) {
	short := asMatrix(iidNormal(24, 50, 0, 1))
	d := convergence.Compute(short, nil)
	s := convergence.GenerateSummary(d, len(short))

	require.NotEmpty(t, s.Issues)
	assert.Contains(t, s.Issues[0], "Low sample count")
	assert.NotEmpty(t, s.Recommendations)

	healthy := asMatrix(iidNormal(25, 5000, 0, 1))
	dh := convergence.Compute(healthy, nil)
	sh := convergence.GenerateSummary(dh, len(healthy))
	assert.Empty(t, sh.Issues)
	assert.NotEmpty(t, sh.Recommendations)
}

func BenchmarkComputeDiagnostics(b *testing.B) {
	matrix := asMatrix(iidNormal(1, 10000, 0, 1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		convergence.Compute(matrix, nil)
	}
}
