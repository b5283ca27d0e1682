// Package verify implements the user-facing verification workflows: add,
// check, update, export, and fix, plus the import-time hooks.
//
// The Verifier composes the library store, the integrity checker registry,
// and the batch executor. Every workflow selects a file set from the catalog,
// fans the per-file work across the executor, classifies each outcome, and
// aggregates counts. Checksum mismatches and I/O errors are severe failures;
// integrity violations are warnings. Nothing that happens to a single file
// can abort the rest of a batch.
package verify
