package main

import (
	"context"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newUpdateCommand(cmdCtx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "update [query...]",
		Short: "Recompute and overwrite stored checksums",
		Long: `Recompute and overwrite stored checksums.

The previous values are discarded, so corruption that happened before the
update becomes undetectable. Updating the whole library without a query asks
for confirmation unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withVerifier(cmd, true, func(ctx context.Context, v *verify.Verifier, _ *library.Store) error {
				_, err := v.Update(ctx, args, force)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
