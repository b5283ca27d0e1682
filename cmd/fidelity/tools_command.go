package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fidelity/internal/deps"
)

func newToolsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show the external validator tools and their availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.Tools))
			rows := make([][]string, 0, len(statuses))
			available := 0
			for _, status := range statuses {
				state := "available"
				if !status.Available {
					state = status.Detail
				} else {
					available++
				}
				fixes := "no"
				if status.CanFix {
					fixes = "yes"
				}
				rows = append(rows, []string{status.Name, status.Command, status.Formats, fixes, state})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Tool", "Binary", "Formats", "Fixes", "Status"}, rows))
			if available == 0 {
				fmt.Fprintln(out, "No validator tools found; only checksum verification is possible.")
			}
			return nil
		},
	}
}
