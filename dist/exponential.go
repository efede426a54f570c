package dist

import "math"

// exponentialSampler draws from Exponential(rate) by inverse transform:
// -ln(1-U)/rate.
type exponentialSampler struct {
	base
	rate float64
}

func newExponentialSampler(d Distribution, src UniformSource) (*exponentialSampler, error) {
	rate := d.params["rate"]
	if rate <= 0 {
		return nil, paramErr(Exponential, "rate", rate, "must be positive")
	}
	return &exponentialSampler{
		base: base{typ: Exponential, params: d.params, src: src},
		rate: rate,
	}, nil
}

func (s *exponentialSampler) Sample() float64 {
	return -math.Log(1-s.src.Next()) / s.rate
}

func (s *exponentialSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
