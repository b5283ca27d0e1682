package main

import (
	"context"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newFixCommand(cmdCtx *commandContext) *cobra.Command {
	var force bool
	var backup bool

	cmd := &cobra.Command{
		Use:   "fix [query...]",
		Short: "Repair structurally damaged files in place",
		Long: `Repair structurally damaged files in place.

Matching files are validated first; only the ones whose validator can also
repair them and reports damage are candidates. The damaged files are listed
and, after confirmation, repaired and re-fingerprinted. Repair rewrites file
content, so the confirmation is skipped only with --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			keepBackup := cfg.Check.Backup
			if cmd.Flags().Changed("backup") {
				keepBackup = backup
			}

			return cmdCtx.withVerifier(cmd, true, func(ctx context.Context, v *verify.Verifier, _ *library.Store) error {
				_, err := v.Fix(ctx, args, verify.FixOptions{Force: force, Backup: keepBackup})
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&backup, "backup", true, "Keep the repair tool's backup file next to the original")
	return cmd
}
