package mc

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/simkit/mc/convergence"
	"github.com/simkit/mc/dist"
	"github.com/simkit/mc/random"
	"github.com/simkit/mc/stats"
)

// Engine runs Monte Carlo simulations under one fixed configuration.
// Each Simulate call owns a fresh random source derived from the
// engine's seed and its own sampler instances, so results are
// reproducible and sequential calls do not interfere.
type Engine struct {
	config Config
	seed   uint32
}

// New creates an engine, filling configuration defaults and resolving
// the seed. Configuration errors surface here, before any sampling work
// is spent.
func New(config Config) (*Engine, error) {
	cfg, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	var seed uint32
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		src, err := random.NewFromEntropy()
		if err != nil {
			return nil, errors.Wrap(err, "mc: seeding engine")
		}
		seed = src.Seed()
		cfg.Seed = &seed
	}

	return &Engine{config: cfg, seed: seed}, nil
}

// Config returns the fully-defaulted configuration the engine runs
// with, including the resolved seed.
func (e *Engine) Config() Config { return e.config }

// Simulate draws the model's variables for the configured number of
// iterations, retains rows past burn-in at the thinning stride, and
// returns the summarized result.
//
// Sampler construction fails fast on invalid distribution parameters.
// A wall-clock timeout does not fail the run: the result is truncated,
// still structurally valid, and carries a warning.
func (e *Engine) Simulate(model *Model, onProgress ProgressFunc) (*Result, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}

	src := random.New(e.seed)
	samplers := make([]dist.Sampler, len(model.Variables))
	for i, v := range model.Variables {
		s, err := dist.New(v.Dist, src)
		if err != nil {
			return nil, errors.Wrapf(err, "mc: variable %q", v.Name)
		}
		samplers[i] = s
	}

	draw := func(row []float64) {
		for j, s := range samplers {
			row[j] = s.Sample()
		}
	}
	return e.run(model.Names(), len(samplers), draw, onProgress)
}

// RawSampler produces one vector of raw inputs per iteration from the
// run's random source.
type RawSampler func(src *random.Source) []float64

// Evaluator maps one vector of raw inputs to the derived quantities of
// interest.
type Evaluator func(raw []float64) []float64

// SimulateWithEvaluator generalizes Simulate for derived quantities: a
// raw-input sampler draws base values and an evaluator maps them to the
// named variables that get summarized. Use this when the quantities of
// interest are functions of several base draws rather than the draws
// themselves.
func (e *Engine) SimulateWithEvaluator(variableNames []string, sample RawSampler, evaluate Evaluator, onProgress ProgressFunc) (*Result, error) {
	if len(variableNames) == 0 {
		return nil, errors.New("mc: at least one variable name is required")
	}
	if sample == nil || evaluate == nil {
		return nil, errors.New("mc: sampler and evaluator must be non-nil")
	}

	// Probe one draw on a throwaway source so shape mismatches fail
	// fast, before any loop work.
	probe := evaluate(sample(random.New(e.seed)))
	if len(probe) != len(variableNames) {
		return nil, errors.Errorf("mc: evaluator returned %d values for %d variables", len(probe), len(variableNames))
	}

	src := random.New(e.seed)
	draw := func(row []float64) {
		copy(row, evaluate(sample(src)))
	}
	return e.run(variableNames, len(variableNames), draw, onProgress)
}

// run is the shared iterate -> burn-in -> thin loop.
func (e *Engine) run(names []string, width int, draw func(row []float64), onProgress ProgressFunc) (*Result, error) {
	cfg := e.config
	start := time.Now()

	burnIn := *cfg.BurnIn
	retainCap := cfg.retainedSamples()
	samples := make([][]float64, 0, retainCap)
	var warnings []string

	for iter := 0; iter < cfg.Iterations; iter++ {
		// Cooperative budget check between iterations only;
		// mid-iteration work is never interrupted, so elapsed time can
		// modestly exceed the budget.
		if cfg.Timeout > 0 && time.Since(start) > cfg.Timeout {
			warnings = append(warnings, fmt.Sprintf(
				"timeout after %d of %d iterations; sample set truncated", iter, cfg.Iterations))
			break
		}

		row := make([]float64, width)
		draw(row)

		if iter >= burnIn && (iter-burnIn)%cfg.Thinning == 0 && len(samples) < retainCap {
			samples = append(samples, row)
		}

		if onProgress != nil && (iter+1)%cfg.ProgressInterval == 0 {
			completed := iter + 1
			elapsed := time.Since(start)
			remaining := time.Duration(float64(elapsed) / float64(completed) * float64(cfg.Iterations-completed))
			onProgress(Progress{
				Completed:          completed,
				Total:              cfg.Iterations,
				Percent:            float64(completed) / float64(cfg.Iterations) * 100,
				EstimatedRemaining: remaining,
				SamplesCollected:   len(samples),
			})
		}
	}

	statistics := stats.Compute(samples)
	diagnostics := convergence.Compute(samples, nil)

	if n := len(samples); n > 0 && diagnostics.MinESS < cfg.ConvergenceThreshold*float64(n) {
		warnings = append(warnings, fmt.Sprintf(
			"effective sample size %.0f for variable %q is below threshold",
			diagnostics.MinESS, names[diagnostics.MinESSVariable]))
	}

	return &Result{
		Samples:          samples,
		VariableNames:    names,
		Statistics:       statistics,
		Diagnostics:      diagnostics,
		ExecutionTime:    time.Since(start),
		EffectiveSamples: len(samples),
		Success:          len(samples) > 0,
		Config:           cfg,
		Warnings:         warnings,
	}, nil
}

// Run simulates a model with engine defaults (10,000 iterations,
// entropy-drawn seed), for callers that don't need configuration.
func Run(model *Model) (*Result, error) {
	engine, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return engine.Simulate(model, nil)
}

// RunSeeded simulates a model with the given iteration count and seed,
// defaults elsewhere.
func RunSeeded(model *Model, iterations int, seed uint32) (*Result, error) {
	cfg := DefaultConfig()
	cfg.Iterations = iterations
	cfg.Seed = &seed
	engine, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Simulate(model, nil)
}
