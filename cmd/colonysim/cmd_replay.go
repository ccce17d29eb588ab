package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/colony-sim/internal/engine"
	"github.com/talgya/colony-sim/internal/ledger"
)

func newReplayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a recorded trial from its seed ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			id, _ := flags.GetString("id")
			file, _ := flags.GetString("file")
			if (id == "") == (file == "") {
				return fmt.Errorf("specify exactly one of --id or --file")
			}

			var (
				l   *ledger.Ledger
				err error
			)
			if file != "" {
				l, err = ledger.ReadFile(file)
			} else {
				db, dbErr := a.store()
				if dbErr != nil {
					return dbErr
				}
				l, err = db.LoadLedger(id)
			}
			if err != nil {
				return err
			}

			var trial *engine.Trial
			if flags.Changed("years") {
				years, _ := flags.GetInt("years")
				trial, err = a.sim.ReplayYears(cmd.Context(), l, years)
			} else {
				trial, err = a.sim.Replay(cmd.Context(), l)
			}
			if err != nil {
				return err
			}
			return printTrial(cmd, a, id, trial)
		},
	}

	cmd.Flags().String("id", "", "Ledger ID in the database")
	cmd.Flags().String("file", "", "Ledger JSON file")
	cmd.Flags().Int("years", 0, "Years to replay; must equal the ledger length")
	return cmd
}
