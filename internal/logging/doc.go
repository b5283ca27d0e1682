// Package logging builds slog loggers for the fidelity CLI.
//
// Console output uses a compact text format for interactive runs; JSON output
// is available for machine consumption. Loggers can fan out to the configured
// log directory in addition to stderr. Helper constructors attach component
// and run identifiers so one verification run can be traced across packages.
package logging
