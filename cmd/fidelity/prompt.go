package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"fidelity/internal/verify"
)

// newPrompter builds a yes/no prompter over the command's streams. When stdin
// is not an interactive terminal the prompter declines without reading, so
// piped and scripted runs never hang and never destroy anything by accident.
func newPrompter(in io.Reader, out io.Writer) verify.Prompter {
	return func(question string) bool {
		if file, ok := in.(*os.File); ok && !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
			return false
		}
		fmt.Fprintf(out, "%s ", question)
		reader := bufio.NewReader(in)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
