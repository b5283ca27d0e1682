package verify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"fidelity/internal/batch"
	"fidelity/internal/digest"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// CheckMode selects what a Check run verifies. The zero value is invalid; at
// least one of the two checks must be requested.
type CheckMode struct {
	Checksums bool
	Integrity bool
}

// Check verifies matching files. Checksum verification compares stored
// fingerprints against the files' current content; integrity verification
// runs the external validators. Files without a stored checksum are skipped
// by the checksum pass but still validated.
//
// A non-nil report is returned even on failures. When any file fails a
// checksum comparison or cannot be read, the error is a *FailuresError so
// callers can distinguish data damage from operational errors.
func (v *Verifier) Check(ctx context.Context, query []string, mode CheckMode) (*batch.Report, error) {
	log := v.runLogger("check")

	integrity := mode.Integrity
	if integrity {
		available := v.registry.Available()
		if len(available) == 0 {
			if !mode.Checksums {
				return nil, ErrNoCheckers
			}
			log.Warn("no integrity checkers found, verifying checksums only")
			integrity = false
		} else {
			programs := make([]string, 0, len(available))
			for _, c := range available {
				programs = append(programs, c.Program())
			}
			v.status("Using integrity checkers: %s", strings.Join(programs, ", "))
		}
	}

	items, err := v.store.Items(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Info("checking files",
		logging.Int("files", len(items)),
		logging.Bool("checksums", mode.Checksums),
		logging.Bool("integrity", integrity),
	)

	report := v.executor.Run(ctx, "Verifying", items, func(ctx context.Context, file *library.MediaFile) batch.Outcome {
		return v.checkOne(ctx, log, file, mode.Checksums, integrity)
	})

	for _, f := range report.Failed {
		v.status("FAILED %s: %s", f.File.Path, f.Reason)
	}
	for _, w := range report.Warnings {
		v.status("WARNING %s: %s", w.File.Path, w.Reason)
	}
	if integrity {
		v.status("Checked integrity of %d files, %d warnings.", report.Total, report.IntegrityWarnings)
	}
	if mode.Checksums {
		v.status("Verified checksums of %d files (%s), %d failures.",
			report.Total, humanize.Bytes(uint64(report.Bytes)), report.Failures())
	}
	if n := report.Failures(); n > 0 {
		return report, &FailuresError{Count: n}
	}
	return report, nil
}

// checkOne applies the requested checks to one file. The checksum comparison
// runs first; an integrity pass still happens after a clean checksum so
// structural problems surface in the same run.
func (v *Verifier) checkOne(ctx context.Context, log *slog.Logger, file *library.MediaFile, checksums, integrity bool) batch.Outcome {
	var bytes int64
	if checksums && file.HasChecksum() {
		n, err := digest.Verify(file)
		bytes = n
		if err != nil {
			log.Error("verification failed", logging.String("path", file.Path), logging.Error(err))
			return classify(file, bytes, err)
		}
	}
	if integrity {
		if err := v.registry.Validate(ctx, file); err != nil {
			log.Warn("integrity warning", logging.String("path", file.Path), logging.Error(err))
			return classify(file, bytes, err)
		}
	}
	log.Debug("ok", logging.String("path", file.Path))
	return batch.Outcome{File: file, Bytes: bytes}
}
