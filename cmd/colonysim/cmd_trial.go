package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/colony-sim/internal/engine"
	"github.com/talgya/colony-sim/internal/entropy"
	"github.com/talgya/colony-sim/internal/ledger"
)

func newTrialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Run one recorded trial and store its seed ledger",
		Long: `Run a single trial, capturing every year's seed so it can be replayed with
'colonysim replay'. Without --years the trial runs until a strategy goes
extinct or the configured year cap is reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			prob, _ := flags.GetFloat64("prob")
			selection, _ := flags.GetFloat64("selection")
			severity, _ := flags.GetFloat64("severity")
			years, _ := flags.GetInt("years")
			outPath, _ := flags.GetString("out")
			noStore, _ := flags.GetBool("no-store")

			var seeds entropy.Source
			if flags.Changed("seed") {
				seed, _ := flags.GetInt64("seed")
				seeds = entropy.NewDeterministic(seed)
			} else {
				forked, err := entropy.Fork(a.seeds)
				if err != nil {
					return err
				}
				seeds = forked
			}

			p := engine.Params{
				ShockProbability:     prob,
				SelectionCoefficient: selection,
				ShockSeverity:        severity,
			}

			var (
				trial *engine.Trial
				err   error
			)
			if flags.Changed("years") {
				trial, err = a.sim.RunYears(cmd.Context(), p, years, seeds)
			} else {
				trial, err = a.sim.RunUntilExtinction(cmd.Context(), p, seeds)
			}
			if err != nil {
				return err
			}

			var id string
			if !noStore {
				db, err := a.store()
				if err != nil {
					return err
				}
				if id, err = db.SaveLedger(trial.Ledger, trial.Outcome()); err != nil {
					return err
				}
			}
			if outPath != "" {
				if err := ledger.WriteFile(outPath, trial.Ledger); err != nil {
					return err
				}
			}

			return printTrial(cmd, a, id, trial)
		},
	}

	cmd.Flags().Float64("prob", 0.1, "Yearly shock probability")
	cmd.Flags().Float64("selection", 1.0, "Selection coefficient favoring the colony")
	cmd.Flags().Float64("severity", 0.5, "Mean fraction of the colony killed by a shock")
	cmd.Flags().Int("years", 0, "Fixed horizon in years (default: until extinction)")
	cmd.Flags().Int64("seed", 0, "Seed for a reproducible trial")
	cmd.Flags().String("out", "", "Also write the ledger to this JSON file")
	cmd.Flags().Bool("no-store", false, "Do not store the ledger in the database")
	return cmd
}

func printTrial(cmd *cobra.Command, a *app, id string, t *engine.Trial) error {
	colony, lone := t.Series.Last()
	if a.jsonOut {
		return a.writeJSON(cmd, map[string]any{
			"id":          id,
			"params":      t.Params,
			"outcome":     t.Outcome().String(),
			"years":       t.Years(),
			"shocks":      t.ShockCount(),
			"cap_reached": t.CapReached,
			"replayed":    t.Replayed,
			"series":      t.Series,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "outcome: %s win after %s years (%s shocks)\n",
		t.Outcome(), humanize.Comma(int64(t.Years())), humanize.Comma(int64(t.ShockCount())))
	fmt.Fprintf(out, "final populations: colony %.2f, lone %.2f\n", colony, lone)
	if t.CapReached {
		fmt.Fprintln(out, "stopped at the year cap before either strategy went extinct")
	}
	if id != "" {
		fmt.Fprintf(out, "ledger: %s\n", id)
	}
	return nil
}
