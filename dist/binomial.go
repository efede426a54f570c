package dist

import "math"

// binomialTrialCutoff is where direct Bernoulli summation gives way to
// the normal approximation (no continuity correction).
const binomialTrialCutoff = 25

// binomialSampler draws from Binomial(n, p).
type binomialSampler struct {
	base
	n int
	p float64
}

func newBinomialSampler(d Distribution, src UniformSource) (*binomialSampler, error) {
	nf := d.params["n"]
	p := d.params["p"]
	if nf <= 0 || nf != math.Trunc(nf) {
		return nil, paramErr(Binomial, "n", nf, "must be a positive integer")
	}
	if p < 0 || p > 1 {
		return nil, paramErr(Binomial, "p", p, "must lie in [0, 1]")
	}
	return &binomialSampler{
		base: base{typ: Binomial, params: d.params, src: src},
		n:    int(nf),
		p:    p,
	}, nil
}

func (s *binomialSampler) Sample() float64 {
	if s.n < binomialTrialCutoff {
		k := 0
		for i := 0; i < s.n; i++ {
			if s.src.Next() < s.p {
				k++
			}
		}
		return float64(k)
	}
	mean := float64(s.n) * s.p
	std := math.Sqrt(float64(s.n) * s.p * (1 - s.p))
	x := math.Round(mean + std*standardNormal(s.src))
	if x < 0 {
		return 0
	}
	if x > float64(s.n) {
		return float64(s.n)
	}
	return x
}

func (s *binomialSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
