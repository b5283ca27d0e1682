package verify

import (
	"context"

	"fidelity/internal/batch"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// FixOptions controls the fix workflow.
type FixOptions struct {
	// Force skips the confirmation prompt.
	Force bool
	// Backup keeps the repair tool's backup file next to the original.
	Backup bool
}

// Fix repairs structurally corrupt files in place. Matching files are first
// validated with the checker that can also repair them; files that pass are
// never touched. The damaged ones are listed and, after confirmation, fixed
// and re-fingerprinted. Stored checksums are refreshed only after a
// successful repair, so an interrupted run never leaves a fingerprint
// describing content that no longer exists.
func (v *Verifier) Fix(ctx context.Context, query []string, opts FixOptions) (*batch.Report, error) {
	log := v.runLogger("fix")

	items, err := v.store.Items(ctx, query)
	if err != nil {
		return nil, err
	}
	var fixable []*library.MediaFile
	for _, file := range items {
		if v.registry.Fixer(file) != nil {
			fixable = append(fixable, file)
		}
	}
	log.Info("scanning for fixable files",
		logging.Int("candidates", len(fixable)),
		logging.Int("matched", len(items)),
	)

	scan := v.executor.Run(ctx, "Scanning", fixable, func(ctx context.Context, file *library.MediaFile) batch.Outcome {
		err := v.registry.Fixer(file).Validate(ctx, file)
		return classify(file, 0, err)
	})

	if len(scan.Warnings) == 0 {
		v.status("No damaged files found.")
		return scan, nil
	}

	damaged := make([]*library.MediaFile, 0, len(scan.Warnings))
	for _, w := range scan.Warnings {
		v.status("%s: %s", w.File.Path, w.Reason)
		damaged = append(damaged, w.File)
	}

	if !opts.Force {
		question := "Do you want to fix these files? This can not be undone! (y/n)"
		if opts.Backup {
			question = "Do you want to fix these files? Backup files will be created. (y/n)"
		}
		if !v.prompt(question) {
			log.Info("fix declined", logging.Int("damaged", len(damaged)))
			return scan, nil
		}
	}

	report := v.executor.Run(ctx, "Fixing", damaged, func(ctx context.Context, file *library.MediaFile) batch.Outcome {
		fixer := v.registry.Fixer(file)
		if err := fixer.Fix(ctx, file.Path, opts.Backup); err != nil {
			log.Error("fix failed", logging.String("path", file.Path), logging.Error(err))
			return classify(file, 0, err)
		}
		n, err := v.setChecksum(ctx, file)
		if err != nil {
			log.Error("could not refresh checksum", logging.String("path", file.Path), logging.Error(err))
			return classify(file, n, err)
		}
		log.Info("fixed", logging.String("path", file.Path))
		return batch.Outcome{File: file, Bytes: n}
	})

	for _, f := range report.Failed {
		v.status("FAILED %s: %s", f.File.Path, f.Reason)
	}
	v.status("Fixed %d of %d files.", report.OK, report.Total)
	return report, nil
}
