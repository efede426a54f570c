package dist

import "math"

// uniformSampler draws from Uniform[min, max).
type uniformSampler struct {
	base
	min float64
	max float64
}

func newUniformSampler(d Distribution, src UniformSource) (*uniformSampler, error) {
	min := d.params["min"]
	max := d.params["max"]
	if min >= max {
		return nil, paramErr(Uniform, "min", min, "must be less than max")
	}
	return &uniformSampler{
		base: base{typ: Uniform, params: d.params, src: src},
		min:  min,
		max:  max,
	}, nil
}

func (s *uniformSampler) Sample() float64 {
	return s.min + (s.max-s.min)*s.src.Next()
}

func (s *uniformSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}

// triangularSampler draws from Triangular(min, mode, max) by an inverse
// CDF split into two branches at the mode.
type triangularSampler struct {
	base
	min  float64
	mode float64
	max  float64
}

func newTriangularSampler(d Distribution, src UniformSource) (*triangularSampler, error) {
	min := d.params["min"]
	mode := d.params["mode"]
	max := d.params["max"]
	if min >= max {
		return nil, paramErr(Triangular, "min", min, "must be less than max")
	}
	if mode < min || mode > max {
		return nil, paramErr(Triangular, "mode", mode, "must lie within [min, max]")
	}
	return &triangularSampler{
		base: base{typ: Triangular, params: d.params, src: src},
		min:  min,
		mode: mode,
		max:  max,
	}, nil
}

func (s *triangularSampler) Sample() float64 {
	u := s.src.Next()
	span := s.max - s.min
	cut := (s.mode - s.min) / span
	if u < cut {
		return s.min + math.Sqrt(u*span*(s.mode-s.min))
	}
	return s.max - math.Sqrt((1-u)*span*(s.max-s.mode))
}

func (s *triangularSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
