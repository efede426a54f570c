// Package mc implements an independent-draw Monte Carlo simulation
// engine over declarative stochastic models.
//
// A model names random variables and assigns each a parametric
// distribution; the engine draws repeated samples through a seeded,
// bit-reproducible random source, applies burn-in and thinning, and
// summarizes the retained sample matrix with descriptive statistics and
// MCMC-style convergence diagnostics.
//
// Basic usage:
//
//	model := &mc.Model{
//		ID: "demo",
//		Variables: []mc.Variable{
//			{Name: "x", Dist: dist.NewNormal(0, 1)},
//			{Name: "y", Dist: dist.NewUniform(0, 10)},
//		},
//	}
//	result, err := mc.Run(model)
package mc

import (
	"time"

	"github.com/pkg/errors"

	"github.com/simkit/mc/dist"
)

// DomainKind classifies the value range of a variable.
type DomainKind string

// Domain kinds.
const (
	DomainContinuous  DomainKind = "continuous"
	DomainDiscrete    DomainKind = "discrete"
	DomainInteger     DomainKind = "integer"
	DomainCategorical DomainKind = "categorical"
)

// Domain describes the range a variable takes values in. It is
// informational metadata for downstream rendering; the engine does not
// clip draws to it.
type Domain struct {
	Kind       DomainKind
	Min        float64
	Max        float64
	Categories []string
}

// Variable is one named random variable of a stochastic model.
type Variable struct {
	Name     string
	Dist     dist.Distribution
	Domain   *Domain
	Observed bool
}

// Dependency is an informational edge between two variables. The engine
// draws variables independently; edges are carried through to reports
// only.
type Dependency struct {
	From string
	To   string
}

// Model is a declarative stochastic model: an ordered list of variables
// with optional dependency edges and constraints. Models are immutable
// during a run.
type Model struct {
	ID           string
	Variables    []Variable
	Dependencies []Dependency
	Constraints  []string
}

// validate checks structural soundness before any sampling work starts.
func (m *Model) validate() error {
	if m == nil {
		return errors.New("mc: model must be non-nil")
	}
	if len(m.Variables) == 0 {
		return errors.New("mc: model must declare at least one variable")
	}
	seen := make(map[string]bool, len(m.Variables))
	for _, v := range m.Variables {
		if v.Name == "" {
			return errors.New("mc: variable names must be non-empty")
		}
		if seen[v.Name] {
			return errors.Errorf("mc: duplicate variable name %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Names returns the variable names in declaration order.
func (m *Model) Names() []string {
	names := make([]string, len(m.Variables))
	for i, v := range m.Variables {
		names[i] = v.Name
	}
	return names
}

// Config configures a simulation run. All fields are fixed for the
// lifetime of the run.
type Config struct {
	// Iterations is the total number of sampling iterations. Required,
	// must be positive.
	Iterations int

	// BurnIn is the number of initial iterations discarded before any
	// row is retained. Nil means automatic: 10% of Iterations. Point at
	// zero to disable burn-in.
	BurnIn *int

	// Thinning retains only every k-th post-burn-in row to reduce
	// serial correlation. Values below 1 default to 1 (keep all).
	Thinning int

	// ConvergenceThreshold is the minimum acceptable ratio of worst-case
	// effective sample size to retained samples before a warning is
	// attached. Values <= 0 default to 0.01.
	ConvergenceThreshold float64

	// Seed drives the random source. Nil means a fresh seed is drawn
	// from the platform entropy pool once at engine construction and
	// used deterministically thereafter. Every 32-bit value is a valid
	// seed.
	Seed *uint32

	// Timeout is the wall-clock budget for the sampling loop, checked
	// cooperatively between iterations. Zero means no budget. Exceeding
	// it truncates the run without failing it.
	Timeout time.Duration

	// ProgressInterval is how many iterations pass between progress
	// callbacks. Values below 1 default to Iterations/10.
	ProgressInterval int

	// Chains is reserved for multi-chain runs. Values below 1 default
	// to 1; the engine itself schedules a single chain and exposes
	// stream forking for callers that parallelize.
	Chains int
}

// DefaultConfig returns the default run configuration: 10,000
// iterations, automatic burn-in, no thinning, entropy-drawn seed.
func DefaultConfig() Config {
	return Config{
		Iterations:           10000,
		Thinning:             1,
		ConvergenceThreshold: 0.01,
		Chains:               1,
	}
}

// withDefaults fills unset fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	if c.Iterations <= 0 {
		return c, errors.Errorf("mc: iterations must be positive, got %d", c.Iterations)
	}
	if c.BurnIn == nil {
		auto := c.Iterations / 10
		c.BurnIn = &auto
	}
	if *c.BurnIn < 0 {
		return c, errors.Errorf("mc: burn-in must be non-negative, got %d", *c.BurnIn)
	}
	if *c.BurnIn >= c.Iterations {
		return c, errors.Errorf("mc: burn-in %d must be below iterations %d", *c.BurnIn, c.Iterations)
	}
	if c.Thinning < 1 {
		c.Thinning = 1
	}
	if c.ConvergenceThreshold <= 0 {
		c.ConvergenceThreshold = 0.01
	}
	if c.ProgressInterval < 1 {
		c.ProgressInterval = c.Iterations / 10
		if c.ProgressInterval < 1 {
			c.ProgressInterval = 1
		}
	}
	if c.Chains < 1 {
		c.Chains = 1
	}
	return c, nil
}

// retainedSamples is the exact number of rows a full (untruncated) run
// keeps: floor((iterations - burnIn) / thinning).
func (c Config) retainedSamples() int {
	return (c.Iterations - *c.BurnIn) / c.Thinning
}

// Progress is a point-in-time report of a running simulation.
type Progress struct {
	Completed          int
	Total              int
	Percent            float64
	EstimatedRemaining time.Duration
	SamplesCollected   int
}

// ProgressFunc receives synchronous progress reports. The sampling loop
// resumes as soon as the callback returns, so callbacks must not block
// indefinitely.
type ProgressFunc func(Progress)
