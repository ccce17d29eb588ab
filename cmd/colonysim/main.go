// Command colonysim estimates how often a colony strategy survives pandemic
// shocks against a lone strategy, and records and replays individual trials.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "colonysim",
		Short: "Colony versus lone strategy under stochastic pandemic shocks",
		Long: `colonysim runs a stochastic logistic growth model in which a pandemic
strikes each year with a fixed probability and thins the colony population.

It sweeps shock probabilities to estimate how often the colony strategy
survives, and records per-year seeds so any single trial can be replayed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newSweepCmd(a),
		newTrialCmd(a),
		newReplayCmd(a),
		newLedgersCmd(a),
	)
	return rootCmd
}
