package dist

import "math"

// normalSampler draws from Normal(mean, std) using the Box-Muller
// transform. Each transform yields a pair of independent deviates; the
// second is kept as a spare and returned on the next call, halving the
// transcendental-function work. The spare is owned by the sampler
// instance, never shared.
type normalSampler struct {
	base
	mean     float64
	std      float64
	spare    float64
	hasSpare bool
}

func newNormalSampler(d Distribution, src UniformSource) (*normalSampler, error) {
	mean := d.params["mean"]
	std := d.params["stddev"]
	if std <= 0 {
		return nil, paramErr(Normal, "stddev", std, "must be positive")
	}
	return &normalSampler{
		base: base{typ: Normal, params: d.params, src: src},
		mean: mean,
		std:  std,
	}, nil
}

func (s *normalSampler) Sample() float64 {
	return s.mean + s.std*s.standard()
}

// standard returns a standard normal deviate.
func (s *normalSampler) standard() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	u1 := 1 - s.src.Next() // (0, 1]
	u2 := s.src.Next()
	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return r * math.Cos(theta)
}

func (s *normalSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}

// standardNormal draws a single standard normal deviate via Box-Muller,
// discarding the paired value. Used by the discrete samplers' normal
// approximations, which draw too rarely to benefit from spare caching.
func standardNormal(src UniformSource) float64 {
	u1 := 1 - src.Next()
	u2 := src.Next()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// logNormalSampler draws exp(Normal(mu, sigma)).
type logNormalSampler struct {
	base
	norm *normalSampler
}

func newLogNormalSampler(d Distribution, src UniformSource) (*logNormalSampler, error) {
	mu := d.params["mu"]
	sigma := d.params["sigma"]
	if sigma <= 0 {
		return nil, paramErr(LogNormal, "sigma", sigma, "must be positive")
	}
	norm, err := newNormalSampler(NewNormal(mu, sigma), src)
	if err != nil {
		return nil, err
	}
	return &logNormalSampler{
		base: base{typ: LogNormal, params: d.params, src: src},
		norm: norm,
	}, nil
}

func (s *logNormalSampler) Sample() float64 {
	return math.Exp(s.norm.Sample())
}

func (s *logNormalSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
