package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export [query...]",
		Short: "Write stored checksums in sha256sum format",
		Long: `Write stored checksums in sha256sum format.

Each fingerprinted file produces one "<checksum> *<path>" line, suitable for
later verification with sha256sum --check. Files without a stored checksum
are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withVerifier(cmd, false, func(ctx context.Context, v *verify.Verifier, _ *library.Store) error {
				out := cmd.OutOrStdout()
				if outputPath != "" {
					file, err := os.Create(outputPath)
					if err != nil {
						return fmt.Errorf("create %s: %w", outputPath, err)
					}
					defer file.Close()
					out = file
				}
				_, err := v.Export(ctx, out, args)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
