package verify

import (
	"context"
	"errors"

	"fidelity/internal/integrity"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// OnItemImported gives a newly cataloged file its fingerprint. When the
// import replaced earlier versions of the same item, the first non-empty
// prior checksum is carried forward unchanged, preserving the chain of
// custody across re-imports of identical content. Otherwise a fresh
// fingerprint is computed. A file that already carries a checksum is left
// alone.
func (v *Verifier) OnItemImported(ctx context.Context, file *library.MediaFile, priorChecksums []string) error {
	if file.HasChecksum() {
		return nil
	}
	for _, checksum := range priorChecksums {
		if checksum == "" {
			continue
		}
		file.Checksum = checksum
		v.logger.Debug("carried forward checksum",
			logging.String("path", file.Path),
			logging.String("checksum", checksum),
		)
		return v.store.Update(ctx, file)
	}
	_, err := v.setChecksum(ctx, file)
	return err
}

// PreCommitCheck validates incoming files before they are committed to the
// catalog and reports any integrity violations. The returned skip flag tells
// the caller to leave the damaged files out: quiet runs skip automatically,
// interactive runs ask. With integrity checking disabled or no validators
// installed, nothing is checked and nothing is skipped.
func (v *Verifier) PreCommitCheck(ctx context.Context, files []*library.MediaFile) ([]*integrity.Violation, bool) {
	if !v.integrity || len(v.registry.Available()) == 0 {
		return nil, false
	}

	var violations []*integrity.Violation
	for _, file := range files {
		err := v.registry.Validate(ctx, file)
		if err == nil {
			continue
		}
		var violation *integrity.Violation
		if errors.As(err, &violation) {
			v.logger.Warn("integrity warning on import",
				logging.String("path", file.Path),
				logging.String("reason", violation.Reason),
			)
			violations = append(violations, violation)
		} else {
			v.logger.Error("integrity check failed on import",
				logging.String("path", file.Path), logging.Error(err))
		}
	}
	if len(violations) == 0 {
		return nil, false
	}

	for _, violation := range violations {
		v.status("WARNING %s: %s", violation.Path, violation.Reason)
	}
	if v.quiet {
		return violations, true
	}
	return violations, v.prompt("Do you want to skip these files? (y/n)")
}
