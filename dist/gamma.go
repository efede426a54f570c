package dist

import "math"

// gammaSampler draws from Gamma(shape, scale) using the Marsaglia-Tsang
// squeeze acceptance-rejection method for shape >= 1. Shapes below 1
// are boosted: Gamma(a) = Gamma(a+1) * U^(1/a).
type gammaSampler struct {
	base
	shape float64
	scale float64
}

func newGammaSampler(d Distribution, src UniformSource) (*gammaSampler, error) {
	shape := d.params["shape"]
	scale := d.params["scale"]
	if shape <= 0 {
		return nil, paramErr(Gamma, "shape", shape, "must be positive")
	}
	if scale <= 0 {
		return nil, paramErr(Gamma, "scale", scale, "must be positive")
	}
	return &gammaSampler{
		base:  base{typ: Gamma, params: d.params, src: src},
		shape: shape,
		scale: scale,
	}, nil
}

func (s *gammaSampler) Sample() float64 {
	return s.scale * gammaUnit(s.src, s.shape)
}

func (s *gammaSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}

// gammaUnit draws from Gamma(shape, 1).
func gammaUnit(src UniformSource, shape float64) float64 {
	if shape < 1 {
		u := src.Next()
		return gammaUnit(src, shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := standardNormal(src)
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := src.Next()
		// Squeeze test accepts the bulk of draws without a log.
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
