package stats

import "math"

// Bin is one equal-width histogram bin. Density is the count normalized
// so that the histogram integrates to 1.
type Bin struct {
	Lower   float64
	Upper   float64
	Count   int
	Density float64
}

// Histogram bins xs into the given number of equal-width bins. Values
// equal to the maximum land in the last bin. Constant data yields a
// single bin carrying all mass.
func Histogram(xs []float64, bins int) []Bin {
	if len(xs) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := minMax(xs)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(xs), Density: 1}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = out[i].Lower + width
	}
	for _, x := range xs {
		i := int((x - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	norm := float64(len(xs)) * width
	for i := range out {
		out[i].Density = float64(out[i].Count) / norm
	}
	return out
}

// DensityPoint is one evaluation of an estimated density.
type DensityPoint struct {
	X       float64
	Density float64
}

// SilvermanBandwidth returns the rule-of-thumb kernel bandwidth
// 1.06 * stddev * N^(-1/5).
func SilvermanBandwidth(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return 1.06 * StdDev(xs) * math.Pow(float64(len(xs)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate on a uniform grid of
// gridSize points spanning the data plus three bandwidths on each side.
// A zero bandwidth (constant or single-sample data) degenerates to a
// point mass at the data value.
func KDE(xs []float64, gridSize int) []DensityPoint {
	if len(xs) == 0 || gridSize <= 0 {
		return nil
	}
	h := SilvermanBandwidth(xs)
	if h == 0 {
		return []DensityPoint{{X: xs[0], Density: 1}}
	}

	lo, hi := minMax(xs)
	lo -= 3 * h
	hi += 3 * h
	step := (hi - lo) / float64(gridSize-1)
	if gridSize == 1 {
		step = 0
	}

	norm := 1 / (float64(len(xs)) * h * math.Sqrt(2*math.Pi))
	out := make([]DensityPoint, gridSize)
	for i := range out {
		x := lo + float64(i)*step
		sum := 0.0
		for _, xi := range xs {
			z := (x - xi) / h
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = DensityPoint{X: x, Density: norm * sum}
	}
	return out
}
