package verify

import (
	"context"

	"github.com/dustin/go-humanize"

	"fidelity/internal/batch"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// Add computes and stores fingerprints for matching files that do not have
// one yet. Files that already carry a checksum are left untouched. When
// integrity checking is enabled, newly fingerprinted files are also validated
// and violations are reported as warnings.
func (v *Verifier) Add(ctx context.Context, query []string) (*batch.Report, error) {
	log := v.runLogger("add")

	items, err := v.store.Items(ctx, query)
	if err != nil {
		return nil, err
	}
	var missing []*library.MediaFile
	for _, file := range items {
		if !file.HasChecksum() {
			missing = append(missing, file)
		}
	}
	log.Info("adding checksums",
		logging.Int("files", len(missing)),
		logging.Int("matched", len(items)),
	)

	validate := v.integrity && len(v.registry.Available()) > 0

	report := v.executor.Run(ctx, "Adding checksums", missing, func(ctx context.Context, file *library.MediaFile) batch.Outcome {
		n, err := v.setChecksum(ctx, file)
		if err != nil {
			log.Error("could not add checksum", logging.String("path", file.Path), logging.Error(err))
			return classify(file, n, err)
		}
		if validate {
			if err := v.registry.Validate(ctx, file); err != nil {
				log.Warn("integrity warning", logging.String("path", file.Path), logging.Error(err))
				return classify(file, n, err)
			}
		}
		log.Debug("checksum added", logging.String("path", file.Path))
		return batch.Outcome{File: file, Bytes: n}
	})

	v.status("Added checksums for %d of %d files (%s).",
		report.Total-report.IOErrors, report.Total, humanize.Bytes(uint64(report.Bytes)))
	for _, w := range report.Warnings {
		v.status("WARNING %s: %s", w.File.Path, w.Reason)
	}
	return report, nil
}
