package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fidelity/internal/verify"
)

// exitFailures is the distinguished exit status for verification failures so
// scripts can tell damaged data apart from operational errors.
const exitFailures = 15

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var failures *verify.FailuresError
		if errors.As(err, &failures) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitFailures)
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
