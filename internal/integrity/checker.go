package integrity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"fidelity/internal/library"
)

// Seams for tests.
var (
	commandContext = exec.CommandContext
	lookPath       = exec.LookPath
)

// Violation reports structural corruption detected by an external validator.
// The reason is free text taken from the tool's own diagnostic output.
type Violation struct {
	Path   string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// Checker validates files of one media format by invoking an external tool.
type Checker interface {
	// Program returns the external tool's binary name or path.
	Program() string
	// Available reports whether the external tool is installed. The probe
	// runs at most once per process; the result is cached.
	Available() bool
	// Supports reports whether the checker handles the given format.
	Supports(format library.Format) bool
	// Validate runs the tool against the file. A *Violation error means the
	// file is structurally corrupt; other errors are I/O or subprocess
	// launch failures. Files of unsupported formats validate successfully
	// without spawning anything.
	Validate(ctx context.Context, file *library.MediaFile) error
	// CanFix reports whether the checker can repair the given file in place.
	CanFix(file *library.MediaFile) bool
	// Fix repairs the file in place. When keepBackup is false the backup
	// artifact the tool produces is deleted after the repair.
	Fix(ctx context.Context, path string, keepBackup bool) error
}

// tool carries the pieces every checker variant shares: the binary, the
// optional subprocess timeout, and the cached availability probe.
type tool struct {
	program string
	timeout time.Duration

	availOnce sync.Once
	avail     bool
}

func (t *tool) Program() string {
	return t.program
}

func (t *tool) Available() bool {
	t.availOnce.Do(func() {
		_, err := lookPath(t.program)
		t.avail = err == nil
	})
	return t.avail
}

// execResult captures a finished subprocess invocation. A nonzero exit code
// is a result, not an error; errors are reserved for launch failures.
type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

func (t *tool) run(ctx context.Context, args ...string) (execResult, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	cmd := commandContext(ctx, t.program, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := execResult{stdout: stdout.String(), stderr: stderr.String()}
	// A context kill also surfaces as *exec.ExitError; report it as a
	// subprocess failure, not as the tool's own verdict.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("run %s: %w", t.program, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.exitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("run %s: %w", t.program, err)
	}
	return result, nil
}
