package main

import (
	"context"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newAddCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add [query...]",
		Short: "Compute and store checksums for files that have none",
		Long: `Compute and store checksums for files that have none.

Query terms narrow the batch to catalog paths containing every term. Files
that already carry a checksum are never touched; use "update" to overwrite.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withVerifier(cmd, true, func(ctx context.Context, v *verify.Verifier, _ *library.Store) error {
				_, err := v.Add(ctx, args)
				return err
			})
		},
	}
}
