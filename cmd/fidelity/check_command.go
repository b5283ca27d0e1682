package main

import (
	"context"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newCheckCommand(cmdCtx *commandContext) *cobra.Command {
	var integrityOnly bool
	var skipIntegrity bool

	cmd := &cobra.Command{
		Use:   "check [query...]",
		Short: "Verify stored checksums and validate file structure",
		Long: `Verify stored checksums and validate file structure.

By default every matching file with a stored checksum is re-read and compared
against it, and the external validators run when integrity checking is
enabled in the configuration. The command exits with status 15 when any
checksum comparison fails or a file cannot be read; structural warnings from
the validators do not affect the exit status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := verify.CheckMode{Checksums: true}
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			mode.Integrity = cfg.Check.Integrity && !skipIntegrity
			if integrityOnly {
				mode = verify.CheckMode{Integrity: true}
			}

			return cmdCtx.withVerifier(cmd, false, func(ctx context.Context, v *verify.Verifier, _ *library.Store) error {
				_, err := v.Check(ctx, args, mode)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&integrityOnly, "integrity", "i", false, "Run only the external integrity validators")
	cmd.Flags().BoolVar(&skipIntegrity, "no-integrity", false, "Verify checksums only")
	cmd.MarkFlagsMutuallyExclusive("integrity", "no-integrity")
	return cmd
}
