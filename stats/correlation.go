package stats

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Covariance returns the unbiased sample covariance of two equal-length
// vectors, or 0 when fewer than two pairs are supplied.
func Covariance(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	return stat.Covariance(xs, ys, nil)
}

// Correlation returns the Pearson correlation coefficient, or 0 when
// either vector has zero variance (where the coefficient is undefined).
func Correlation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	if Variance(xs) == 0 || Variance(ys) == 0 {
		return 0
	}
	return stat.Correlation(xs, ys, nil)
}

// CorrelationMatrix returns the full Pearson correlation matrix of a
// sample matrix (rows = observations, columns = variables). Only the
// upper triangle is computed; the lower is mirrored. Zero-variance
// columns correlate 0 with everything and 1 with themselves.
func CorrelationMatrix(matrix [][]float64) [][]float64 {
	cols := Columns(matrix)
	k := len(cols)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
		out[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := Correlation(cols[i], cols[j])
			out[i][j] = r
			out[j][i] = r
		}
	}
	return out
}

// CovarianceMatrix returns the full covariance matrix of a sample
// matrix. The heavy lifting is done by gonum over a dense view of the
// samples; fewer than two rows yields an all-zero matrix.
func CovarianceMatrix(matrix [][]float64) [][]float64 {
	rows := len(matrix)
	if rows == 0 {
		return nil
	}
	k := len(matrix[0])
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}
	if rows < 2 {
		return out
	}

	flat := make([]float64, 0, rows*k)
	for _, row := range matrix {
		flat = append(flat, row...)
	}
	dense := mat.NewDense(rows, k, flat)

	var sym mat.SymDense
	stat.CovarianceMatrix(&sym, dense, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out[i][j] = sym.At(i, j)
		}
	}
	return out
}

// Columns transposes a row-major sample matrix into per-variable
// vectors.
func Columns(matrix [][]float64) [][]float64 {
	if len(matrix) == 0 {
		return nil
	}
	k := len(matrix[0])
	cols := make([][]float64, k)
	for j := range cols {
		cols[j] = make([]float64, len(matrix))
		for i, row := range matrix {
			cols[j][i] = row[j]
		}
	}
	return cols
}
