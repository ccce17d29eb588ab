package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/colony-sim/internal/engine"
)

func newSweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Estimate colony win fractions across shock probabilities",
		Long: `Run many extinction-mode trials for every shock probability and report the
fraction in which the colony strategy survived. Flags override the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := a.cfg.SweepRequest()
			flags := cmd.Flags()
			if flags.Changed("trials") {
				req.Trials, _ = flags.GetInt("trials")
			}
			if flags.Changed("probs") {
				req.Probabilities, _ = flags.GetFloat64Slice("probs")
			}
			if flags.Changed("selection") {
				req.SelectionCoefficient, _ = flags.GetFloat64("selection")
			}
			if flags.Changed("severity") {
				req.ShockSeverity, _ = flags.GetFloat64("severity")
			}
			if flags.Changed("workers") {
				req.Workers, _ = flags.GetInt("workers")
			}
			if flags.Changed("seed") {
				seed, _ := flags.GetInt64("seed")
				req.Seed = &seed
			}
			save, _ := flags.GetBool("save")

			start := time.Now()
			table, err := a.sim.Sweep(cmd.Context(), req)
			if err != nil {
				return err
			}

			var id string
			if save {
				db, err := a.store()
				if err != nil {
					return err
				}
				if id, err = db.SaveSweep(req, table); err != nil {
					return err
				}
				if err := db.SaveMeta("last_sweep", id); err != nil {
					return err
				}
			}

			if a.jsonOut {
				return a.writeJSON(cmd, map[string]any{
					"id":        id,
					"request":   req,
					"root_seed": table.RootSeed,
					"rows":      table.Rows,
				})
			}

			out := cmd.OutOrStdout()
			total := int64(req.Trials) * int64(len(req.Probabilities))
			fmt.Fprintf(out, "%s trials in %s (selection %.3f, severity %.3f)\n",
				humanize.Comma(total), time.Since(start).Round(time.Millisecond),
				req.SelectionCoefficient, req.ShockSeverity)
			fmt.Fprintf(out, "%-12s %-12s %s\n", "probability", "colony wins", "fraction")
			for _, r := range table.Rows {
				fmt.Fprintf(out, "%-12.4f %-12s %.4f %s\n",
					r.Probability, humanize.Comma(int64(r.ColonyWins)), r.Fraction, bar(r))
			}
			fmt.Fprintf(out, "root seed %d (pass --seed to reproduce)\n", table.RootSeed)
			if id != "" {
				fmt.Fprintf(out, "saved sweep %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Trials per shock probability")
	cmd.Flags().Float64Slice("probs", nil, "Shock probabilities to sweep (comma separated)")
	cmd.Flags().Float64("selection", 0, "Selection coefficient favoring the colony")
	cmd.Flags().Float64("severity", 0, "Mean fraction of the colony killed by a shock")
	cmd.Flags().Int("workers", 0, "Concurrent trials (0 = GOMAXPROCS)")
	cmd.Flags().Int64("seed", 0, "Root seed for a reproducible sweep")
	cmd.Flags().Bool("save", false, "Store the table in the database")
	return cmd
}

func bar(r engine.Row) string {
	const width = 30
	return strings.Repeat("#", int(r.Fraction*width+0.5))
}
