package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/graag/mythcommflag-silence/internal/backend"
	"github.com/graag/mythcommflag-silence/internal/config"
	"github.com/graag/mythcommflag-silence/internal/notifications"
	"github.com/graag/mythcommflag-silence/internal/recordings"
	"github.com/graag/mythcommflag-silence/internal/session"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jobID int64
	var presetOverride string
	var presetFile string

	cmd := &cobra.Command{
		Use:   "run [<chanid> <starttime>]",
		Short: "Flag commercial breaks in a recording",
		Long: `Run a flagging session over a recording identified by channel id and
start time, or by a queued job id alone with --job. The session follows
the recording while it is still being written and pushes skip list
updates to the backend as breaks are found.

The start time uses the MythTV form, e.g. "2026-08-23 20:00:00".`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var chanID int64
			var startTime string
			switch len(args) {
			case 2:
				parsed, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid chanid %q: %w", args[0], err)
				}
				chanID = parsed
				startTime = args[1]
			case 0:
				if jobID == 0 {
					return fmt.Errorf("either <chanid> <starttime> or --job is required")
				}
			default:
				return fmt.Errorf("provide both <chanid> and <starttime>")
			}

			return ctx.withStore(func(cfg *config.Config, store *recordings.Store) error {
				logger, err := ctx.logger()
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				client := backend.NewClient(cfg.BackendAddr(),
					time.Duration(cfg.Backend.RequestTimeout)*time.Second, logger)
				defer client.Close()

				sess := session.New(cfg, store,
					backend.NewEmitter(client, logger),
					notifications.NewService(cfg),
					logger,
					session.Options{
						JobID:          jobID,
						ChanID:         chanID,
						StartTime:      startTime,
						PresetOverride: presetOverride,
						PresetFile:     presetFile,
					})

				breaks, err := sess.Run(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Detected %d adverts.\n", breaks)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&jobID, "job", 0, "Job queue row to track status in")
	cmd.Flags().StringVar(&presetOverride, "preset", "", "Comma-separated detection parameter overrides")
	cmd.Flags().StringVar(&presetFile, "preset-file", "", "Preset rules file (overrides the configured one)")
	return cmd
}
