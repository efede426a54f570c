package mc

import (
	"fmt"
	"strings"
	"time"

	"github.com/simkit/mc/convergence"
	"github.com/simkit/mc/stats"
)

// Result is the structured output of one simulation run. It is computed
// once and never mutated; downstream consumers read only these fields.
type Result struct {
	// Samples is the retained sample matrix: rows are retained
	// iterations, columns are variables in declaration order.
	Samples [][]float64

	// VariableNames labels the columns of Samples.
	VariableNames []string

	// Statistics are the descriptive statistics of Samples.
	Statistics *stats.SampleStatistics

	// Diagnostics are the convergence diagnostics of Samples.
	Diagnostics *convergence.Diagnostics

	// ExecutionTime is the wall-clock duration of the sampling loop
	// plus post-processing.
	ExecutionTime time.Duration

	// EffectiveSamples is the number of retained rows:
	// floor((iterations - burnIn) / thinning) for an untruncated run.
	EffectiveSamples int

	// Success reports whether the run produced usable output. A timed
	// out run with retained rows is still a success; see Warnings.
	Success bool

	// Config is the fully-defaulted configuration that produced this
	// result, including the resolved seed.
	Config Config

	// Warnings describe non-fatal degradations: timeout truncation,
	// below-threshold effective sample size.
	Warnings []string
}

// Column returns the samples of the named variable, or nil if the name
// is unknown.
func (r *Result) Column(name string) []float64 {
	for j, n := range r.VariableNames {
		if n != name {
			continue
		}
		col := make([]float64, len(r.Samples))
		for i, row := range r.Samples {
			col[i] = row[j]
		}
		return col
	}
	return nil
}

// Summary renders a plain-text digest of the run for logs and CLI
// output.
func (r *Result) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "samples: %d  execution: %s  converged: %t (confidence %.2f)\n",
		r.EffectiveSamples, r.ExecutionTime.Round(time.Millisecond), r.Diagnostics.Assessment.Converged, r.Diagnostics.Assessment.Confidence)

	// A fully-truncated run retains no rows, so the per-variable
	// statistics slices are empty even though VariableNames is not.
	if len(r.Statistics.Mean) < len(r.VariableNames) {
		b.WriteString("  no retained samples\n")
	} else {
		for j, name := range r.VariableNames {
			fmt.Fprintf(&b, "  %-16s mean=%.4f  sd=%.4f  median=%.4f  ess=%.0f  rhat=%.3f\n",
				name,
				r.Statistics.Mean[j],
				r.Statistics.StdDev[j],
				r.Statistics.Percentiles[50][j],
				r.Diagnostics.EffectiveSampleSize[j],
				r.Diagnostics.RHat[j])
		}
	}

	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}
