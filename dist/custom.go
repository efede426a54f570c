package dist

// customSampler adapts a caller-supplied sampling rule to the Sampler
// interface. The rule receives the run's uniform source so custom draws
// participate in the determinism guarantee.
type customSampler struct {
	base
	fn SampleFunc
}

func newCustomSampler(d Distribution, src UniformSource) (*customSampler, error) {
	if d.fn == nil {
		return nil, paramErr(Custom, "fn", 0, "must be non-nil")
	}
	return &customSampler{
		base: base{typ: Custom, params: map[string]float64{}, src: src},
		fn:   d.fn,
	}, nil
}

func (s *customSampler) Sample() float64 {
	return s.fn(s.src)
}

func (s *customSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}
