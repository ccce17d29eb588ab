package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLedgersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledgers",
		Short: "List stored seed ledgers",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			db, err := a.store()
			if err != nil {
				return err
			}
			list, err := db.ListLedgers(limit)
			if err != nil {
				return err
			}

			if a.jsonOut {
				return a.writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No ledgers stored. Run 'colonysim trial' first.")
				return nil
			}
			for _, s := range list {
				fmt.Fprintf(out, "%s  %-6s %8s years  p=%.3f s=%.3f sev=%.3f  %s\n",
					s.ID, s.Outcome, humanize.Comma(int64(s.Years)),
					s.ShockProbability, s.SelectionCoefficient, s.ShockSeverity,
					humanize.Time(s.Created()))
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum ledgers to list")
	return cmd
}
