// Command mcsim runs Monte Carlo simulations over YAML-declared
// stochastic models.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcsim",
		Short: "Monte Carlo simulation over declarative stochastic models",
		Long: `mcsim draws repeated samples from a model of named random variables,
applies burn-in and thinning, and reports statistics and convergence
diagnostics. Runs are bit-reproducible given a seed.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mcsim version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
