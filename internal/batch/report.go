package batch

import (
	"context"

	"fidelity/internal/library"
)

// Status classifies one file's outcome.
type Status int

const (
	// StatusOK means the file passed every requested check.
	StatusOK Status = iota
	// StatusChecksumFailed means the stored fingerprint disagrees with the
	// file's current content. Never auto-corrected.
	StatusChecksumFailed
	// StatusIntegrityWarning means an external validator detected structural
	// corruption. A warning class, distinct from checksum failures.
	StatusIntegrityWarning
	// StatusIOError means a filesystem or subprocess launch failure.
	StatusIOError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusChecksumFailed:
		return "checksum_failed"
	case StatusIntegrityWarning:
		return "integrity_warning"
	case StatusIOError:
		return "io_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of applying one operation to one file. Exactly one
// outcome is produced per file per run.
type Outcome struct {
	File   *library.MediaFile
	Status Status
	Reason string
	// Bytes counts content read while digesting, for summary reporting.
	Bytes int64
}

// Operation applies a check or mutation to a single catalog file.
type Operation func(ctx context.Context, file *library.MediaFile) Outcome

// Report aggregates the outcomes of one batch run. It is finalized when Run
// returns and not mutated afterwards.
type Report struct {
	Total             int
	OK                int
	ChecksumFailures  int
	IntegrityWarnings int
	IOErrors          int
	Bytes             int64
	// Failed lists checksum and I/O failures in completion order.
	Failed []Outcome
	// Warnings lists integrity violations in completion order.
	Warnings []Outcome
}

// Failures reports the severe failure count: checksum mismatches plus I/O
// errors. Integrity warnings are excluded.
func (r *Report) Failures() int {
	return r.ChecksumFailures + r.IOErrors
}

func (r *Report) record(outcome Outcome) {
	r.Bytes += outcome.Bytes
	switch outcome.Status {
	case StatusOK:
		r.OK++
	case StatusChecksumFailed:
		r.ChecksumFailures++
		r.Failed = append(r.Failed, outcome)
	case StatusIntegrityWarning:
		r.IntegrityWarnings++
		r.Warnings = append(r.Warnings, outcome)
	case StatusIOError:
		r.IOErrors++
		r.Failed = append(r.Failed, outcome)
	}
}
