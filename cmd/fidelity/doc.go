// Package main hosts the fidelity CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into catalog
// operations: fingerprinting new files, verifying stored checksums, running
// the external integrity validators, repairing damaged files, and exporting
// checksum lists. It centralizes configuration resolution, logging setup, and
// the library lock so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
