package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"fidelity/internal/library"
	"fidelity/internal/verify"
)

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>...",
		Short: "Catalog media files from the filesystem",
		Long: `Catalog media files from the filesystem.

Directories are walked recursively; files with a recognized extension are
added to the catalog and fingerprinted. When integrity checking is enabled,
incoming files are validated first and damaged ones can be skipped. A file
already cataloged under the same path keeps its stored checksum.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			return cmdCtx.withVerifier(cmd, true, func(ctx context.Context, v *verify.Verifier, store *library.Store) error {
				return runImport(ctx, cmd, v, store, args, cfg.Check.Import)
			})
		},
	}
}

// runImport catalogs the files under roots. With checks disabled the records
// are inserted bare; otherwise every new file is fingerprinted and, when
// integrity checking is on, validated before commit.
func runImport(ctx context.Context, cmd *cobra.Command, v *verify.Verifier, store *library.Store, roots []string, checks bool) error {
	incoming, err := collectMediaFiles(roots)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(incoming) == 0 {
		fmt.Fprintln(out, "No media files found.")
		return nil
	}

	// Records already cataloged under the same path count as prior versions;
	// their stored checksums are carried into this import.
	existing := make(map[string]*library.MediaFile, len(incoming))
	for _, file := range incoming {
		record, err := store.GetByPath(ctx, file.Path)
		switch {
		case err == nil:
			existing[file.Path] = record
		case errors.Is(err, library.ErrNotFound):
		default:
			return err
		}
	}

	skipped := make(map[string]bool)
	if checks {
		violations, skip := v.PreCommitCheck(ctx, incoming)
		if skip {
			for _, violation := range violations {
				skipped[violation.Path] = true
			}
		}
	}

	imported := 0
	for _, file := range incoming {
		if skipped[file.Path] {
			continue
		}
		record := existing[file.Path]
		var priors []string
		if record == nil {
			var err error
			record, err = store.Insert(ctx, file.Path, file.Format, "")
			if err != nil {
				return err
			}
		} else {
			priors = []string{record.Checksum}
		}
		if checks {
			if err := v.OnItemImported(ctx, record, priors); err != nil {
				return err
			}
		}
		imported++
	}

	fmt.Fprintf(out, "Imported %d files, skipped %d.\n", imported, len(incoming)-imported)
	return nil
}

// collectMediaFiles walks the given roots and returns transient records for
// every file with a recognized media extension, in walk order.
func collectMediaFiles(roots []string) ([]*library.MediaFile, error) {
	var files []*library.MediaFile
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
		err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			format, ok := library.FormatFromPath(path)
			if !ok {
				return nil
			}
			files = append(files, &library.MediaFile{Path: path, Format: format})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", abs, err)
		}
	}
	return files, nil
}
