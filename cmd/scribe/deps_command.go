package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"scribe/internal/deps"
	"scribe/internal/preflight"
)

const (
	statusReady    = "ready"
	statusMissing  = "missing"
	statusOptional = "optional, missing"
)

type depStatusJSON struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cfg)
			dirs := preflight.RunAll(cfg)

			if asJSON {
				out := make([]depStatusJSON, 0, len(statuses))
				for _, s := range statuses {
					out = append(out, depStatusJSON(s))
				}
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(statuses)+len(dirs))
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, s.Command, statusLabel(s), s.Detail})
			}
			for _, d := range dirs {
				label := statusReady
				if !d.Passed {
					label = statusMissing
				}
				rows = append(rows, []string{d.Name, "", label, d.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Status", "Detail"},
				rows,
				shouldColorize(out),
				statusColor,
			))
			if missing := deps.Missing(statuses); len(missing) > 0 {
				fmt.Fprintf(out, "Required tools missing: %d\n", len(missing))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func statusLabel(s deps.Status) string {
	switch {
	case s.Available:
		return statusReady
	case s.Optional:
		return statusOptional
	default:
		return statusMissing
	}
}

func statusColor(col int, value string) text.Colors {
	if col != 2 {
		return nil
	}
	switch value {
	case statusReady:
		return text.Colors{text.FgGreen}
	case statusOptional:
		return text.Colors{text.FgYellow}
	case statusMissing:
		return text.Colors{text.FgRed}
	}
	return nil
}
