// Package dist implements samplers for the distribution families
// understood by the Monte Carlo engine: the Sampler interface along
// with one implementation per family. A Distribution value is an
// immutable description (family tag plus numeric parameters); the New
// factory turns it into a drawable Sampler bound to a uniform source.
// All parameter validation happens at construction, so a Sampler that
// was built successfully never fails mid-draw.
package dist

import (
	"fmt"

	"github.com/pkg/errors"
)

// Type tags a distribution family.
type Type string

// Supported distribution families.
const (
	Normal      Type = "normal"
	Uniform     Type = "uniform"
	Exponential Type = "exponential"
	Poisson     Type = "poisson"
	Binomial    Type = "binomial"
	Categorical Type = "categorical"
	Beta        Type = "beta"
	Gamma       Type = "gamma"
	LogNormal   Type = "lognormal"
	Triangular  Type = "triangular"
	Custom      Type = "custom"
)

// UniformSource yields uniform draws in [0, 1). *random.Source
// satisfies it; tests may substitute scripted sources.
type UniformSource interface {
	Next() float64
}

// SampleFunc lets callers plug an arbitrary sampling rule into the
// engine as a "custom" distribution. The function receives the run's
// uniform source so custom draws stay reproducible.
type SampleFunc func(u UniformSource) float64

// Distribution is an immutable distribution description: a family tag
// plus that family's numeric parameters. Build one with the NewXxx
// constructors or Parse, then hand it to New for a Sampler.
type Distribution struct {
	typ    Type
	params map[string]float64
	probs  map[string]float64
	fn     SampleFunc
}

// Type returns the family tag.
func (d Distribution) Type() Type { return d.typ }

// Params returns a copy of the numeric parameters.
func (d Distribution) Params() map[string]float64 {
	return copyParams(d.params)
}

// Probs returns a copy of the category probabilities (categorical
// distributions only; nil otherwise).
func (d Distribution) Probs() map[string]float64 {
	if d.probs == nil {
		return nil
	}
	out := make(map[string]float64, len(d.probs))
	for k, v := range d.probs {
		out[k] = v
	}
	return out
}

// probSumTolerance is how far from 1 a categorical probability mass may
// stray before construction is rejected.
const probSumTolerance = 0.001

// NewNormal describes Normal(mean, std).
func NewNormal(mean, std float64) Distribution {
	return Distribution{typ: Normal, params: map[string]float64{"mean": mean, "stddev": std}}
}

// NewUniform describes Uniform[min, max).
func NewUniform(min, max float64) Distribution {
	return Distribution{typ: Uniform, params: map[string]float64{"min": min, "max": max}}
}

// NewExponential describes Exponential(rate).
func NewExponential(rate float64) Distribution {
	return Distribution{typ: Exponential, params: map[string]float64{"rate": rate}}
}

// NewPoisson describes Poisson(lambda).
func NewPoisson(lambda float64) Distribution {
	return Distribution{typ: Poisson, params: map[string]float64{"lambda": lambda}}
}

// NewBinomial describes Binomial(n, p).
func NewBinomial(n int, p float64) Distribution {
	return Distribution{typ: Binomial, params: map[string]float64{"n": float64(n), "p": p}}
}

// NewBeta describes Beta(alpha, beta).
func NewBeta(alpha, beta float64) Distribution {
	return Distribution{typ: Beta, params: map[string]float64{"alpha": alpha, "beta": beta}}
}

// NewGamma describes Gamma(shape, scale).
func NewGamma(shape, scale float64) Distribution {
	return Distribution{typ: Gamma, params: map[string]float64{"shape": shape, "scale": scale}}
}

// NewLogNormal describes LogNormal(mu, sigma), i.e. exp(Normal(mu, sigma)).
func NewLogNormal(mu, sigma float64) Distribution {
	return Distribution{typ: LogNormal, params: map[string]float64{"mu": mu, "sigma": sigma}}
}

// NewTriangular describes Triangular(min, mode, max).
func NewTriangular(min, mode, max float64) Distribution {
	return Distribution{typ: Triangular, params: map[string]float64{"min": min, "mode": mode, "max": max}}
}

// NewCategorical describes a categorical distribution over labeled
// outcomes. The probabilities must sum to 1 within a tolerance of
// 0.001 or construction fails.
func NewCategorical(probs map[string]float64) (Distribution, error) {
	if err := validateProbs(probs); err != nil {
		return Distribution{}, err
	}
	copied := make(map[string]float64, len(probs))
	for k, v := range probs {
		copied[k] = v
	}
	return Distribution{typ: Categorical, probs: copied}, nil
}

// NewCustom wraps a caller-supplied sampling rule.
func NewCustom(fn SampleFunc) Distribution {
	return Distribution{typ: Custom, fn: fn}
}

// Parse builds a Distribution from a family name and loose parameter
// maps, as decoded from a model file. Parameter validation is deferred
// to New, matching the constructors.
func Parse(typ Type, params map[string]float64, probs map[string]float64) (Distribution, error) {
	switch typ {
	case Normal, Uniform, Exponential, Poisson, Binomial, Beta, Gamma, LogNormal, Triangular:
		return Distribution{typ: typ, params: copyParams(params)}, nil
	case Categorical:
		return NewCategorical(probs)
	case Custom:
		return Distribution{}, errors.New("dist: custom distributions cannot be parsed from data")
	default:
		return Distribution{}, errors.Wrapf(ErrUnsupportedDistribution, "%q", typ)
	}
}

func copyParams(params map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Sampler draws values from one distribution family. Implementations
// are not safe for concurrent use; each simulation owns its samplers.
type Sampler interface {
	// Sample draws one value. For categorical samplers the value is
	// the index of the drawn category in sorted label order.
	Sample() float64
	// SampleMany draws count values.
	SampleMany(count int) []float64
	// Params reports the construction parameters for labeling output.
	Params() map[string]float64
	// Type reports the family tag.
	Type() Type
}

// New builds the Sampler for a Distribution, drawing its uniforms from
// src. It fails with a *ParameterError when a parameter violates its
// domain and with ErrUnsupportedDistribution for an unknown tag.
func New(d Distribution, src UniformSource) (Sampler, error) {
	switch d.typ {
	case Normal:
		return newNormalSampler(d, src)
	case Uniform:
		return newUniformSampler(d, src)
	case Exponential:
		return newExponentialSampler(d, src)
	case Poisson:
		return newPoissonSampler(d, src)
	case Binomial:
		return newBinomialSampler(d, src)
	case Categorical:
		return newCategoricalSampler(d, src)
	case Beta:
		return newBetaSampler(d, src)
	case Gamma:
		return newGammaSampler(d, src)
	case LogNormal:
		return newLogNormalSampler(d, src)
	case Triangular:
		return newTriangularSampler(d, src)
	case Custom:
		return newCustomSampler(d, src)
	default:
		return nil, errors.Wrapf(ErrUnsupportedDistribution, "%q", d.typ)
	}
}

// ErrUnsupportedDistribution is returned by New for a family tag it
// does not recognize.
var ErrUnsupportedDistribution = errors.New("dist: unsupported distribution")

// ParameterError reports a distribution parameter outside its domain.
// It is only ever produced at sampler construction.
type ParameterError struct {
	Dist   Type
	Param  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("dist: %s parameter %s=%v %s", e.Dist, e.Param, e.Value, e.Reason)
}

func paramErr(d Type, param string, value float64, reason string) error {
	return &ParameterError{Dist: d, Param: param, Value: value, Reason: reason}
}

func validateProbs(probs map[string]float64) error {
	if len(probs) == 0 {
		return paramErr(Categorical, "probabilities", 0, "must be non-empty")
	}
	sum := 0.0
	for label, p := range probs {
		if p < 0 {
			return paramErr(Categorical, label, p, "must be non-negative")
		}
		sum += p
	}
	if sum < 1-probSumTolerance || sum > 1+probSumTolerance {
		return paramErr(Categorical, "probabilities", sum, "must sum to 1")
	}
	return nil
}

// base carries the fields common to every sampler implementation.
type base struct {
	typ    Type
	params map[string]float64
	src    UniformSource
}

func (b *base) Type() Type { return b.typ }

func (b *base) Params() map[string]float64 {
	return copyParams(b.params)
}

// many collects count draws from sample.
func many(count int, sample func() float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = sample()
	}
	return out
}
