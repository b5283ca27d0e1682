package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"fidelity/internal/batch"
	"fidelity/internal/config"
	"fidelity/internal/digest"
	"fidelity/internal/integrity"
	"fidelity/internal/library"
	"fidelity/internal/logging"
)

// Prompter asks the user a yes/no question and reports the answer. The
// command layer installs a terminal prompter; the default declines, so
// non-interactive runs never block.
type Prompter func(question string) bool

// Verifier runs the verification workflows over the library catalog.
type Verifier struct {
	store    *library.Store
	registry *integrity.Registry
	executor *batch.Executor
	logger   *slog.Logger
	prompt   Prompter

	out       io.Writer
	quiet     bool
	integrity bool
}

// Option adjusts Verifier construction.
type Option func(*Verifier)

// WithOutput redirects user-facing status output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(v *Verifier) { v.out = w; v.executor.Out = w }
}

// WithQuiet suppresses status and progress output.
func WithQuiet(quiet bool) Option {
	return func(v *Verifier) { v.quiet = quiet; v.executor.Quiet = quiet }
}

// WithPrompter installs the yes/no prompter used by destructive workflows.
func WithPrompter(prompt Prompter) Option {
	return func(v *Verifier) { v.prompt = prompt }
}

// New builds a Verifier over the given store and checker registry. Worker
// count and the integrity toggle come from cfg.
func New(cfg *config.Config, store *library.Store, registry *integrity.Registry, logger *slog.Logger, opts ...Option) *Verifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	v := &Verifier{
		store:     store,
		registry:  registry,
		executor:  &batch.Executor{Workers: cfg.Check.Threads, Out: os.Stderr},
		logger:    logging.NewComponentLogger(logger, "verify"),
		prompt:    func(string) bool { return false },
		out:       os.Stdout,
		integrity: cfg.Check.Integrity,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// runLogger tags a workflow's log lines with a fresh run identifier.
func (v *Verifier) runLogger(workflow string) *slog.Logger {
	return v.logger.With(
		logging.String("workflow", workflow),
		logging.String(logging.FieldRunID, uuid.NewString()),
	)
}

// setChecksum fingerprints the file and persists the new value.
func (v *Verifier) setChecksum(ctx context.Context, file *library.MediaFile) (int64, error) {
	return digest.Set(ctx, v.store, file)
}

// status prints a user-facing line unless quiet mode is on.
func (v *Verifier) status(format string, args ...any) {
	if v.quiet {
		return
	}
	fmt.Fprintf(v.out, format+"\n", args...)
}

// classify maps a per-file error onto the outcome taxonomy.
func classify(file *library.MediaFile, bytes int64, err error) batch.Outcome {
	outcome := batch.Outcome{File: file, Bytes: bytes}
	if err == nil {
		return outcome
	}
	outcome.Reason = err.Error()

	var mismatch *digest.Mismatch
	var violation *integrity.Violation
	switch {
	case errors.As(err, &mismatch):
		outcome.Status = batch.StatusChecksumFailed
	case errors.As(err, &violation):
		outcome.Status = batch.StatusIntegrityWarning
		outcome.Reason = violation.Reason
	default:
		outcome.Status = batch.StatusIOError
	}
	return outcome
}
