package dist

import "math"

// poissonLambdaCutoff is where Knuth's product algorithm gives way to
// the normal approximation. The approximation carries no continuity
// correction; the cutoff matches the accuracy/speed tradeoff the engine
// is calibrated against.
const poissonLambdaCutoff = 30

// poissonSampler draws from Poisson(lambda).
type poissonSampler struct {
	base
	lambda float64
	limit  float64 // exp(-lambda), precomputed for the Knuth loop
}

func newPoissonSampler(d Distribution, src UniformSource) (*poissonSampler, error) {
	lambda := d.params["lambda"]
	if lambda <= 0 {
		return nil, paramErr(Poisson, "lambda", lambda, "must be positive")
	}
	return &poissonSampler{
		base:   base{typ: Poisson, params: d.params, src: src},
		lambda: lambda,
		limit:  math.Exp(-lambda),
	}, nil
}

func (s *poissonSampler) Sample() float64 {
	if s.lambda < poissonLambdaCutoff {
		k := 0
		p := 1.0
		for {
			k++
			p *= s.src.Next()
			if p <= s.limit {
				return float64(k - 1)
			}
		}
	}
	x := math.Round(s.lambda + math.Sqrt(s.lambda)*standardNormal(s.src))
	if x < 0 {
		return 0
	}
	return x
}

func (s *poissonSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
