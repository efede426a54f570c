package dist

// betaSampler draws from Beta(alpha, beta) as the ratio of two gamma
// draws: X/(X+Y) with X ~ Gamma(alpha, 1), Y ~ Gamma(beta, 1).
type betaSampler struct {
	base
	alpha float64
	beta  float64
}

func newBetaSampler(d Distribution, src UniformSource) (*betaSampler, error) {
	alpha := d.params["alpha"]
	beta := d.params["beta"]
	if alpha <= 0 {
		return nil, paramErr(Beta, "alpha", alpha, "must be positive")
	}
	if beta <= 0 {
		return nil, paramErr(Beta, "beta", beta, "must be positive")
	}
	return &betaSampler{
		base:  base{typ: Beta, params: d.params, src: src},
		alpha: alpha,
		beta:  beta,
	}, nil
}

func (s *betaSampler) Sample() float64 {
	x := gammaUnit(s.src, s.alpha)
	y := gammaUnit(s.src, s.beta)
	return x / (x + y)
}

func (s *betaSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
