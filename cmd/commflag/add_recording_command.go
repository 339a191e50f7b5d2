package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/recordings"
)

func newAddRecordingCommand(ctx *commandContext) *cobra.Command {
	var title string
	var subtitle string
	var callsign string
	var basename string
	var queueJob bool

	cmd := &cobra.Command{
		Use:   "add-recording <chanid> <starttime>",
		Short: "Register a recording for flagging",
		Long: `Register a recording's metadata so flagging sessions can find it.
The basename must name a file under the configured recordings
directory. With --queue a flagging job row is created as well.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chanID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chanid %q: %w", args[0], err)
			}
			startTime := args[1]
			if basename == "" {
				return fmt.Errorf("--basename is required")
			}

			return ctx.withStore(func(cfg *config.Config, store *recordings.Store) error {
				rec := &recordings.Recording{
					ChanID:    chanID,
					StartTime: startTime,
					Title:     title,
					Subtitle:  subtitle,
					Callsign:  callsign,
					Basename:  basename,
				}
				if err := store.InsertRecording(cmd.Context(), rec); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Registered %s (%s)\n", rec.DisplayTitle(), rec.ProgID())

				if queueJob {
					job, err := store.NewJob(cmd.Context(), chanID, startTime)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Queued flagging job %d\n", job.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Recording title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Recording subtitle")
	cmd.Flags().StringVar(&callsign, "callsign", "", "Channel callsign")
	cmd.Flags().StringVar(&basename, "basename", "", "Recording file name under the recordings directory")
	cmd.Flags().BoolVar(&queueJob, "queue", false, "Also queue a flagging job")
	return cmd
}
