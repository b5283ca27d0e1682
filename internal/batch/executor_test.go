package batch_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"fidelity/internal/batch"
	"fidelity/internal/library"
)

func files(n int) []*library.MediaFile {
	items := make([]*library.MediaFile, n)
	for i := range items {
		items[i] = &library.MediaFile{
			ID:     int64(i + 1),
			Path:   fmt.Sprintf("/music/track-%03d.mp3", i),
			Format: library.FormatMP3,
		}
	}
	return items
}

func TestRunProcessesEveryItemExactlyOnce(t *testing.T) {
	items := files(100)
	var (
		mu   sync.Mutex
		seen = map[int64]int{}
	)
	executor := &batch.Executor{Workers: 8, Quiet: true}
	report := executor.Run(context.Background(), "verifying", items, func(ctx context.Context, f *library.MediaFile) batch.Outcome {
		mu.Lock()
		seen[f.ID]++
		mu.Unlock()
		return batch.Outcome{File: f, Status: batch.StatusOK, Bytes: 10}
	})

	if report.Total != 100 || report.OK != 100 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Bytes != 1000 {
		t.Fatalf("expected 1000 bytes accumulated, got %d", report.Bytes)
	}
	if len(seen) != 100 {
		t.Fatalf("expected 100 distinct items processed, got %d", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("item %d processed %d times", id, count)
		}
	}
}

func TestRunIsolatesSingleFailure(t *testing.T) {
	const n = 20
	for k := 0; k < n; k++ {
		items := files(n)
		corrupted := items[k].ID
		executor := &batch.Executor{Workers: 4, Quiet: true}
		report := executor.Run(context.Background(), "verifying", items, func(ctx context.Context, f *library.MediaFile) batch.Outcome {
			if f.ID == corrupted {
				return batch.Outcome{File: f, Status: batch.StatusChecksumFailed, Reason: "checksum did not match"}
			}
			return batch.Outcome{File: f, Status: batch.StatusOK}
		})

		if report.OK != n-1 || report.ChecksumFailures != 1 {
			t.Fatalf("k=%d: expected %d OK and 1 failure, got %+v", k, n-1, report)
		}
		if report.Failures() != 1 {
			t.Fatalf("k=%d: expected severe failure count 1, got %d", k, report.Failures())
		}
		if len(report.Failed) != 1 || report.Failed[0].File.ID != corrupted {
			t.Fatalf("k=%d: expected failed list to carry the corrupted file, got %#v", k, report.Failed)
		}
	}
}

func TestRunRecoversPanickingOperation(t *testing.T) {
	items := files(10)
	executor := &batch.Executor{Workers: 2, Quiet: true}
	report := executor.Run(context.Background(), "verifying", items, func(ctx context.Context, f *library.MediaFile) batch.Outcome {
		if f.ID == 5 {
			panic("operation exploded")
		}
		return batch.Outcome{File: f, Status: batch.StatusOK}
	})

	if report.OK != 9 || report.IOErrors != 1 {
		t.Fatalf("expected panic to become one IO error, got %+v", report)
	}
	if len(report.Failed) != 1 || report.Failed[0].File.ID != 5 {
		t.Fatalf("unexpected failed list: %#v", report.Failed)
	}
}

func TestRunClassifiesWarningsSeparately(t *testing.T) {
	items := files(4)
	executor := &batch.Executor{Workers: 2, Quiet: true}
	report := executor.Run(context.Background(), "verifying", items, func(ctx context.Context, f *library.MediaFile) batch.Outcome {
		switch f.ID {
		case 1:
			return batch.Outcome{File: f, Status: batch.StatusIntegrityWarning, Reason: "stream error"}
		case 2:
			return batch.Outcome{File: f, Status: batch.StatusIOError, Reason: "permission denied"}
		default:
			return batch.Outcome{File: f, Status: batch.StatusOK}
		}
	})

	if report.IntegrityWarnings != 1 || report.IOErrors != 1 || report.OK != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Failures() != 1 {
		t.Fatalf("integrity warnings must not count as severe failures, got %d", report.Failures())
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Reason != "stream error" {
		t.Fatalf("unexpected warnings list: %#v", report.Warnings)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	var calls atomic.Int64
	executor := &batch.Executor{Quiet: true}
	report := executor.Run(context.Background(), "verifying", nil, func(ctx context.Context, f *library.MediaFile) batch.Outcome {
		calls.Add(1)
		return batch.Outcome{File: f, Status: batch.StatusOK}
	})
	if report.Total != 0 || calls.Load() != 0 {
		t.Fatalf("expected empty batch to do nothing, got %+v with %d calls", report, calls.Load())
	}
}

func TestRunSuppressesProgressOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	executor := &batch.Executor{Workers: 2, Out: &buf}
	executor.Run(context.Background(), "verifying", files(5), func(ctx context.Context, f *library.MediaFile) batch.Outcome {
		return batch.Outcome{File: f, Status: batch.StatusOK}
	})
	if buf.Len() != 0 {
		t.Fatalf("expected no progress output on non-terminal writer, got %q", buf.String())
	}
}
