package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/graag/mythcommflag-silence/internal/backend"
	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/recordings"
)

func newMarksCommand(ctx *commandContext) *cobra.Command {
	var asMessage bool

	cmd := &cobra.Command{
		Use:   "marks <chanid> <starttime>",
		Short: "Show the stored skip list for a recording",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chanID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chanid %q: %w", args[0], err)
			}
			startTime := args[1]

			return ctx.withStore(func(cfg *config.Config, store *recordings.Store) error {
				rec, err := store.GetRecording(cmd.Context(), chanID, startTime)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("no recording for chanid %d starttime %q", chanID, startTime)
				}

				marks, err := store.Skiplist(cmd.Context(), chanID, startTime)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asMessage {
					fmt.Fprintln(out, backend.UpdateMessage(rec.ProgID(), marks))
					return nil
				}

				if len(marks) == 0 {
					fmt.Fprintf(out, "No breaks stored for %s\n", rec.DisplayTitle())
					return nil
				}
				rows := make([][]string, 0, len(marks))
				for i, mark := range marks {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						strconv.FormatUint(mark.Start, 10),
						strconv.FormatUint(mark.End, 10),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Start", "End"}, rows, 1, 2, 3))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asMessage, "message", false, "Print the raw player update message instead of a table")
	return cmd
}
