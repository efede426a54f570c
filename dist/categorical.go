package dist

import "sort"

// categoricalSampler draws category indices by walking a cumulative
// probability table. Labels are ordered by sorted key so draws never
// depend on map iteration order.
type categoricalSampler struct {
	base
	labels []string
	cum    []float64
}

func newCategoricalSampler(d Distribution, src UniformSource) (*categoricalSampler, error) {
	if err := validateProbs(d.probs); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(d.probs))
	for label := range d.probs {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	cum := make([]float64, len(labels))
	total := 0.0
	for i, label := range labels {
		total += d.probs[label]
		cum[i] = total
	}

	return &categoricalSampler{
		base:   base{typ: Categorical, params: map[string]float64{"categories": float64(len(labels))}, src: src},
		labels: labels,
		cum:    cum,
	}, nil
}

// Sample returns the index of the drawn category in sorted label
// order. If floating error leaves the draw above the final cumulative
// value, the last category is returned.
func (s *categoricalSampler) Sample() float64 {
	u := s.src.Next()
	for i, c := range s.cum {
		if u < c {
			return float64(i)
		}
	}
	return float64(len(s.labels) - 1)
}

func (s *categoricalSampler) SampleMany(count int) []float64 {
	return many(count, s.Sample)
}

// Labels returns the category labels in index order.
func (s *categoricalSampler) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}
