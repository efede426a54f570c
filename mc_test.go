package mc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simkit/mc"
	"github.com/simkit/mc/dist"
	"github.com/simkit/mc/random"
)

func seedPtr(s uint32) *uint32 { return &s }

func burnInPtr(n int) *int { return &n }

func basicModel() *mc.Model {
	return &mc.Model{
		ID: "basic",
		Variables: []mc.Variable{
			{Name: "x", Dist: dist.NewNormal(0, 1)},
			{Name: "y", Dist: dist.NewUniform(0, 10)},
		},
	}
}

func TestSimulateDeterminism(t *testing.T) {
	cfg := mc.Config{Iterations: 2000, Seed: seedPtr(42)}

	run := func() *mc.Result {
		engine, err := mc.New(cfg)
		require.NoError(t, err)
		result, err := engine.Simulate(basicModel(), nil)
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	require.Equal(t, len(a.Samples), len(b.Samples))
	for i := range a.Samples {
		assert.Equal(t, a.Samples[i], b.Samples[i], "row %d differs", i)
	}
}

func TestSimulateConcreteScenario(t *testing.T) {
	engine, err := mc.New(mc.Config{
		Iterations: 1000,
		BurnIn:     burnInPtr(100),
		Seed:       seedPtr(12345),
	})
	require.NoError(t, err)

	result, err := engine.Simulate(basicModel(), nil)
	require.NoError(t, err)

	assert.Equal(t, 900, result.EffectiveSamples)
	assert.Len(t, result.Samples, 900)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"x", "y"}, result.VariableNames)

	assert.InDelta(t, 0.0, result.Statistics.Mean[0], 0.15)
	assert.InDelta(t, 5.0, result.Statistics.Mean[1], 0.3)

	for _, ess := range result.Diagnostics.EffectiveSampleSize {
		assert.Greater(t, ess, 0.0)
	}
}

func TestBurnInThinningArithmetic(t *testing.T) {
	var tests = []struct {
		iterations int
		burnIn     int
		thinning   int
	}{
		{iterations: 1000, burnIn: 100, thinning: 1},
		{iterations: 1000, burnIn: 100, thinning: 7},
		{iterations: 500, burnIn: 0, thinning: 3},
		{iterations: 100, burnIn: 99, thinning: 1},
		{iterations: 1200, burnIn: 250, thinning: 10},
		{iterations: 64, burnIn: 16, thinning: 5},
	}

	model := &mc.Model{Variables: []mc.Variable{{Name: "x", Dist: dist.NewExponential(1)}}}
	for _, test := range tests {
		engine, err := mc.New(mc.Config{
			Iterations: test.iterations,
			BurnIn:     burnInPtr(test.burnIn),
			Thinning:   test.thinning,
			Seed:       seedPtr(1),
		})
		require.NoError(t, err)

		result, err := engine.Simulate(model, nil)
		require.NoError(t, err)

		want := (test.iterations - test.burnIn) / test.thinning
		assert.Equal(t, want, result.EffectiveSamples,
			"iterations=%d burnIn=%d thinning=%d", test.iterations, test.burnIn, test.thinning)
	}
}

func TestConfigDefaults(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 1000, Seed: seedPtr(5)})
	require.NoError(t, err)

	cfg := engine.Config()
	require.NotNil(t, cfg.BurnIn)
	assert.Equal(t, 100, *cfg.BurnIn, "automatic burn-in is 10%%")
	assert.Equal(t, 1, cfg.Thinning)
	assert.Equal(t, 0.01, cfg.ConvergenceThreshold)
	assert.Equal(t, 1, cfg.Chains)
	require.NotNil(t, cfg.Seed)

	result, err := engine.Simulate(basicModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, 900, result.EffectiveSamples, "automatic burn-in discards 100 of 1000 rows")
}

func TestConfigValidation(t *testing.T) {
	_, err := mc.New(mc.Config{Iterations: 0})
	assert.Error(t, err)

	_, err = mc.New(mc.Config{Iterations: -5})
	assert.Error(t, err)

	_, err = mc.New(mc.Config{Iterations: 100, BurnIn: burnInPtr(100)})
	assert.Error(t, err, "burn-in must be below iterations")

	_, err = mc.New(mc.Config{Iterations: 100, BurnIn: burnInPtr(-1)})
	assert.Error(t, err, "burn-in must be non-negative")
}

func TestEntropySeedResolvedOnce(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 500})
	require.NoError(t, err)
	require.NotNil(t, engine.Config().Seed)

	// The resolved seed makes the engine fully deterministic: a second
	// engine pinned to it reproduces the run.
	pinned, err := mc.New(mc.Config{Iterations: 500, Seed: engine.Config().Seed})
	require.NoError(t, err)

	a, err := engine.Simulate(basicModel(), nil)
	require.NoError(t, err)
	b, err := pinned.Simulate(basicModel(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Samples, b.Samples)
}

func TestModelValidation(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 100, Seed: seedPtr(1)})
	require.NoError(t, err)

	_, err = engine.Simulate(nil, nil)
	assert.Error(t, err)

	_, err = engine.Simulate(&mc.Model{}, nil)
	assert.Error(t, err, "empty model")

	_, err = engine.Simulate(&mc.Model{Variables: []mc.Variable{
		{Name: "x", Dist: dist.NewNormal(0, 1)},
		{Name: "x", Dist: dist.NewUniform(0, 1)},
	}}, nil)
	assert.Error(t, err, "duplicate names")
}

func TestSamplerErrorsFailFast(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 100, Seed: seedPtr(1)})
	require.NoError(t, err)

	_, err = engine.Simulate(&mc.Model{Variables: []mc.Variable{
		{Name: "bad", Dist: dist.NewNormal(0, -1)},
	}}, nil)
	require.Error(t, err)

	var perr *dist.ParameterError
	assert.ErrorAs(t, err, &perr)
}

func TestProgressReporting(t *testing.T) {
	engine, err := mc.New(mc.Config{
		Iterations:       1000,
		BurnIn:           burnInPtr(0),
		Seed:             seedPtr(9),
		ProgressInterval: 100,
	})
	require.NoError(t, err)

	var reports []mc.Progress
	_, err = engine.Simulate(basicModel(), func(p mc.Progress) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	require.Len(t, reports, 10)
	for i, p := range reports {
		assert.Equal(t, (i+1)*100, p.Completed)
		assert.Equal(t, 1000, p.Total)
		assert.InDelta(t, float64(i+1)*10, p.Percent, 1e-9)
		assert.LessOrEqual(t, p.SamplesCollected, p.Completed)
	}
	last := reports[len(reports)-1]
	assert.Equal(t, 1000, last.Completed)
	assert.Equal(t, 1000, last.SamplesCollected)
}

func TestTimeoutTruncatesWithoutFailing(t *testing.T) {
	engine, err := mc.New(mc.Config{
		Iterations: 1000000,
		BurnIn:     burnInPtr(0),
		Seed:       seedPtr(4),
		Timeout:    time.Millisecond,
	})
	require.NoError(t, err)

	result, err := engine.Simulate(basicModel(), nil)
	require.NoError(t, err, "timeout is non-fatal")
	require.NotNil(t, result)

	assert.Less(t, result.EffectiveSamples, 1000000)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "timeout")
	assert.Equal(t, result.EffectiveSamples > 0, result.Success)
}

func TestSimulateWithEvaluator(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 20000, BurnIn: burnInPtr(0), Seed: seedPtr(33)})
	require.NoError(t, err)

	sample := func(src *random.Source) []float64 {
		return []float64{src.Normal(2, 1), src.Normal(3, 1)}
	}
	evaluate := func(raw []float64) []float64 {
		return []float64{raw[0] + raw[1], raw[0] * raw[1]}
	}

	result, err := engine.SimulateWithEvaluator([]string{"sum", "product"}, sample, evaluate, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"sum", "product"}, result.VariableNames)
	assert.InDelta(t, 5.0, result.Statistics.Mean[0], 0.1)
	assert.InDelta(t, 6.0, result.Statistics.Mean[1], 0.15)
}

func TestSimulateWithEvaluatorShapeMismatch(t *testing.T) {
	engine, err := mc.New(mc.Config{Iterations: 100, Seed: seedPtr(1)})
	require.NoError(t, err)

	sample := func(src *random.Source) []float64 { return []float64{src.Next()} }
	evaluate := func(raw []float64) []float64 { return raw }

	_, err = engine.SimulateWithEvaluator([]string{"a", "b"}, sample, evaluate, nil)
	assert.Error(t, err)

	_, err = engine.SimulateWithEvaluator(nil, sample, evaluate, nil)
	assert.Error(t, err)
}

func TestRunSeeded(t *testing.T) {
	a, err := mc.RunSeeded(basicModel(), 1000, 77)
	require.NoError(t, err)
	b, err := mc.RunSeeded(basicModel(), 1000, 77)
	require.NoError(t, err)

	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, 900, a.EffectiveSamples, "default burn-in is 10%%")
}

func TestRunDefaults(t *testing.T) {
	result, err := mc.Run(basicModel())
	require.NoError(t, err)

	assert.Equal(t, 10000, result.Config.Iterations)
	assert.Equal(t, 9000, result.EffectiveSamples)
	assert.True(t, result.Success)
}

func TestResultColumn(t *testing.T) {
	result, err := mc.RunSeeded(basicModel(), 500, 3)
	require.NoError(t, err)

	x := result.Column("x")
	require.Len(t, x, result.EffectiveSamples)
	assert.Equal(t, result.Samples[0][0], x[0])

	assert.Nil(t, result.Column("missing"))
}

func TestResultSummary(t *testing.T) {
	result, err := mc.RunSeeded(basicModel(), 2000, 8)
	require.NoError(t, err)

	text := result.Summary()
	assert.Contains(t, text, "x")
	assert.Contains(t, text, "y")
	assert.Contains(t, text, "mean=")
	assert.Contains(t, text, "samples: 1800")
}

func TestResultSummaryNoRetainedSamples(t *testing.T) {
	engine, err := mc.New(mc.Config{
		Iterations: 1000000,
		Seed:       seedPtr(6),
		Timeout:    time.Nanosecond,
	})
	require.NoError(t, err)

	result, err := engine.Simulate(basicModel(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.EffectiveSamples, "timeout fires before the first iteration")
	assert.False(t, result.Success)

	text := result.Summary()
	assert.Contains(t, text, "samples: 0")
	assert.Contains(t, text, "no retained samples")
	assert.Contains(t, text, "timeout")
	assert.NotContains(t, text, "mean=")
}

func TestCategoricalModel(t *testing.T) {
	weather, err := dist.NewCategorical(map[string]float64{"rain": 0.3, "sun": 0.7})
	require.NoError(t, err)

	model := &mc.Model{
		ID: "weather",
		Variables: []mc.Variable{
			{Name: "weather", Dist: weather, Domain: &mc.Domain{
				Kind:       mc.DomainCategorical,
				Categories: []string{"rain", "sun"},
			}},
		},
	}

	result, err := mc.RunSeeded(model, 5000, 11)
	require.NoError(t, err)

	// Sorted label order: rain=0, sun=1; the mean is the sun share.
	assert.InDelta(t, 0.7, result.Statistics.Mean[0], 0.03)
}

func BenchmarkSimulate(b *testing.B) {
	engine, _ := mc.New(mc.Config{Iterations: 10000, Seed: seedPtr(1)})
	model := basicModel()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Simulate(model, nil); err != nil {
			b.Fatal(err)
		}
	}
}
