package verify

import (
	"context"

	"github.com/dustin/go-humanize"

	"fidelity/internal/batch"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// Update recomputes and overwrites stored fingerprints for matching files.
// This discards the previous values, so a library-wide update without a query
// requires confirmation unless force is set. A declined prompt returns a nil
// report and no error.
func (v *Verifier) Update(ctx context.Context, query []string, force bool) (*batch.Report, error) {
	log := v.runLogger("update")

	if len(query) == 0 && !force {
		if !v.prompt("Do you want to overwrite all checksums in your library? (y/n)") {
			log.Info("update declined")
			return nil, nil
		}
	}

	items, err := v.store.Items(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Info("updating checksums", logging.Int("files", len(items)))

	report := v.executor.Run(ctx, "Updating checksums", items, func(ctx context.Context, file *library.MediaFile) batch.Outcome {
		n, err := v.setChecksum(ctx, file)
		if err != nil {
			log.Error("could not update checksum", logging.String("path", file.Path), logging.Error(err))
		} else {
			log.Debug("checksum updated", logging.String("path", file.Path))
		}
		return classify(file, n, err)
	})

	for _, f := range report.Failed {
		v.status("FAILED %s: %s", f.File.Path, f.Reason)
	}
	v.status("Updated checksums for %d of %d files (%s).",
		report.OK, report.Total, humanize.Bytes(uint64(report.Bytes)))
	return report, nil
}
