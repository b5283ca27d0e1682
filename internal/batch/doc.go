// Package batch runs a per-file operation across a collection of catalog
// files using a bounded worker pool.
//
// Every item is processed exactly once; one item's failure never aborts the
// rest of the batch. Outcomes are classified per file and aggregated into a
// Report under a mutex. Progress is advisory: a terminal progress bar that is
// suppressed in quiet mode and on non-interactive output.
package batch
