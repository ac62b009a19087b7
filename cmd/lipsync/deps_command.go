package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipsync/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check the external tools lipsync depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					return fmt.Errorf("missing required dependencies")
				}
			}
			return nil
		},
	}
	return cmd
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	missing := 0
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing++
		}
	}

	summaryKind, summaryText := statusOK, "all dependencies available"
	if missing > 0 {
		summaryKind = statusError
		summaryText = fmt.Sprintf("%d missing", missing)
	}

	lines := []string{renderStatusLine("Summary", summaryKind, summaryText, colorize)}
	for _, status := range statuses {
		kind := statusOK
		detail := "Ready"
		if status.Command != "" {
			detail = fmt.Sprintf("Ready (command: %s)", status.Command)
		}
		if !status.Available {
			kind = statusError
			detail = status.Detail
			if detail == "" {
				detail = "not available"
			}
			if status.Optional {
				kind = statusWarn
			}
		}
		lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
	}
	return lines
}
