package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/they4kman/duelsweep/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List games recorded with --results-db",
	RunE: func(cmd *cobra.Command, args []string) error {
		if gameConfig.ResultsDB == "" {
			return errors.New("--results-db is required")
		}

		results, err := store.Open(gameConfig.ResultsDB)
		if err != nil {
			return err
		}
		defer results.Close()

		records, err := results.Recent(historyLimit)
		if err != nil {
			return err
		}

		out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		fmt.Fprintln(out, "FINISHED\tGAME\tPLAYER 0\tPLAYER 1")
		for _, record := range records {
			fmt.Fprintf(out, "%s\t%s\t%s (%d)\t%s (%d)\n",
				record.FinishedAt.Local().Format("2006-01-02 15:04:05"),
				record.GameID[:8],
				record.Players[0].Outcome, record.Players[0].Moves,
				record.Players[1].Outcome, record.Players[1].Moves,
			)
		}
		return out.Flush()
	},
}

func init() {
	flags := historyCmd.Flags()

	flags.IntVarP(&historyLimit, "limit", "n", 20, "Number of games to list")
}
