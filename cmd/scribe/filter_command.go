package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/streamfilter"
)

func newFilterCommand() *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:         "filter [file]",
		Short:       "Strip progress and warning noise from diarization output",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input string
				err   error
			)
			if len(args) == 1 && args[0] != "-" {
				data, readErr := os.ReadFile(args[0])
				if readErr != nil {
					return fmt.Errorf("read %s: %w", args[0], readErr)
				}
				input = string(data)
			} else if input, err = readAllInput(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			text, stats := streamfilter.FilterWithStats(input)
			if text != "" {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
					return err
				}
			}
			if showStats {
				fmt.Fprintf(cmd.ErrOrStderr(), "kept %d lines (%d transcript, %d continuation), dropped %d noise, %d other\n",
					stats.Kept(), stats.Transcript, stats.Continuation, stats.Noise, stats.Discarded)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print line classification counts to stderr")
	return cmd
}
