package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"fidelity/internal/library"
)

// Executor fans a per-file operation across a worker pool.
type Executor struct {
	// Workers bounds the pool. Values below one fall back to the number of
	// available CPUs.
	Workers int
	// Quiet suppresses progress output.
	Quiet bool
	// Out receives progress output. Defaults to stderr; progress is shown
	// only when the writer is an interactive terminal.
	Out io.Writer
}

// Run applies op to every item and returns the aggregated report. Items are
// processed in no particular order; each is processed exactly once. A failing
// or panicking operation is recorded as that item's outcome and the batch
// continues.
func (e *Executor) Run(ctx context.Context, label string, items []*library.MediaFile, op Operation) *Report {
	report := &Report{Total: len(items)}
	if len(items) == 0 {
		return report
	}

	workers := e.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	out := e.Out
	if out == nil {
		out = os.Stderr
	}
	progress := newProgress(out, len(items), label, e.Quiet)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan *library.MediaFile)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				outcome := runOne(ctx, op, file)
				mu.Lock()
				report.record(outcome)
				mu.Unlock()
				progress.tick()
			}
		}()
	}

	for _, file := range items {
		jobs <- file
	}
	close(jobs)
	wg.Wait()
	progress.finish()

	return report
}

// runOne shields the batch from a panicking operation; a panic becomes that
// file's I/O failure outcome.
func runOne(ctx context.Context, op Operation, file *library.MediaFile) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				File:   file,
				Status: StatusIOError,
				Reason: fmt.Sprintf("operation panic: %v", r),
			}
		}
	}()
	return op(ctx, file)
}
