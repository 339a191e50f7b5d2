package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/graag/mythcommflag-silence/internal/preset"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	var presetOverride string
	var presetFile string
	var title string
	var callsign string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Show the detection parameters a session would use",
		Long: `Resolve detection parameters the same way a flagging session does:
an explicit override wins, otherwise the first matching preset file
entry, otherwise the built-in defaults. Use --title and --callsign to
test preset file matching for a particular recording.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			file := presetFile
			if file == "" {
				file = cfg.Paths.PresetFile
			}
			resolver := preset.NewResolver(logger)
			store, err := resolver.Resolve(presetOverride, file,
				preset.MatchKey{Title: title, Callsign: callsign})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(store.Params()))
			for _, param := range store.Params() {
				rows = append(rows, []string{
					param.Name,
					strconv.FormatFloat(param.Value, 'g', -1, 64),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Parameter", "Value"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().StringVar(&presetOverride, "preset", "", "Comma-separated detection parameter overrides")
	cmd.Flags().StringVar(&presetFile, "preset-file", "", "Preset rules file (overrides the configured one)")
	cmd.Flags().StringVar(&title, "title", "", "Recording title to match preset entries against")
	cmd.Flags().StringVar(&callsign, "callsign", "", "Channel callsign to match preset entries against")
	return cmd
}
