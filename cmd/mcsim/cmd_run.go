package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/simkit/mc"
	"github.com/simkit/mc/convergence"
)

func newRunCmd() *cobra.Command {
	var (
		modelPath  string
		iterations int
		burnIn     int
		thinning   int
		seed       int64
		timeout    time.Duration
		jsonOut    bool
		verbose    bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation over a YAML model file",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(modelPath)
			if err != nil {
				return err
			}

			cfg := mc.DefaultConfig()
			cfg.Iterations = iterations
			if burnIn >= 0 {
				cfg.BurnIn = &burnIn
			}
			cfg.Thinning = thinning
			cfg.Timeout = timeout
			if seed >= 0 {
				s := uint32(seed)
				cfg.Seed = &s
			}

			engine, err := mc.New(cfg)
			if err != nil {
				return err
			}

			var onProgress mc.ProgressFunc
			if verbose {
				onProgress = func(p mc.Progress) {
					fmt.Printf("iteration %d/%d (%.0f%%), %d samples, ~%s remaining\n",
						p.Completed, p.Total, p.Percent, p.SamplesCollected,
						p.EstimatedRemaining.Round(time.Millisecond))
				}
			}

			result, err := engine.Simulate(model, onProgress)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := saveCSV(outputPath, result); err != nil {
					return err
				}
				if verbose {
					fmt.Printf("saved %d samples to %s\n", result.EffectiveSamples, outputPath)
				}
			}

			if jsonOut {
				return printJSON(result)
			}
			printReport(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "YAML model file (required)")
	cmd.Flags().IntVar(&iterations, "iterations", 10000, "Number of sampling iterations")
	cmd.Flags().IntVar(&burnIn, "burn-in", -1, "Iterations to discard (-1 = 10% of iterations)")
	cmd.Flags().IntVar(&thinning, "thin", 1, "Keep every k-th retained sample")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Random seed (-1 = draw from entropy)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Wall-clock budget, e.g. 30s (0 = none)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print progress")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the sample matrix as CSV")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

// runReport is the JSON projection of a result.
type runReport struct {
	Variables        []string    `json:"variables"`
	EffectiveSamples int         `json:"effectiveSamples"`
	Mean             []float64   `json:"mean"`
	StdDev           []float64   `json:"stdDev"`
	Median           []float64   `json:"median"`
	ESS              []float64   `json:"effectiveSampleSize"`
	RHat             []float64   `json:"rHat"`
	Geweke           []float64   `json:"geweke"`
	Converged        bool        `json:"converged"`
	Confidence       float64     `json:"confidence"`
	Reason           string      `json:"reason"`
	ExecutionMs      int64       `json:"executionMs"`
	Seed             uint32      `json:"seed"`
	Warnings         []string    `json:"warnings,omitempty"`
	Issues           []string    `json:"issues,omitempty"`
	Recommendations  []string    `json:"recommendations,omitempty"`
	Correlation      [][]float64 `json:"correlation"`
}

func printJSON(result *mc.Result) error {
	summary := convergence.GenerateSummary(result.Diagnostics, result.EffectiveSamples)
	report := runReport{
		Variables:        result.VariableNames,
		EffectiveSamples: result.EffectiveSamples,
		Mean:             result.Statistics.Mean,
		StdDev:           result.Statistics.StdDev,
		Median:           result.Statistics.Percentiles[50],
		ESS:              result.Diagnostics.EffectiveSampleSize,
		RHat:             result.Diagnostics.RHat,
		Geweke:           result.Diagnostics.Geweke,
		Converged:        result.Diagnostics.Assessment.Converged,
		Confidence:       result.Diagnostics.Assessment.Confidence,
		Reason:           result.Diagnostics.Assessment.Reason,
		ExecutionMs:      result.ExecutionTime.Milliseconds(),
		Seed:             *result.Config.Seed,
		Warnings:         result.Warnings,
		Issues:           summary.Issues,
		Recommendations:  summary.Recommendations,
		Correlation:      result.Statistics.Correlation,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printReport(result *mc.Result) {
	fmt.Printf("model run complete (seed %d)\n", *result.Config.Seed)
	fmt.Print(result.Summary())

	summary := convergence.GenerateSummary(result.Diagnostics, result.EffectiveSamples)
	for _, issue := range summary.Issues {
		fmt.Printf("  issue: %s\n", issue)
	}
	for _, rec := range summary.Recommendations {
		fmt.Printf("  hint: %s\n", rec)
	}
}

// saveCSV writes the retained sample matrix with a header row of
// variable names.
func saveCSV(path string, result *mc.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(result.VariableNames); err != nil {
		return err
	}
	record := make([]string, len(result.VariableNames))
	for _, row := range result.Samples {
		for j, val := range row {
			record[j] = strconv.FormatFloat(val, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
