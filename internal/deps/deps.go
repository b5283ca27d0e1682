// Package deps reports the availability of the external validator tools.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"fidelity/internal/config"
)

// Requirement defines an external tool the verification workflows rely on.
// Every requirement is optional in the sense that checksum verification works
// without any of them; integrity checking needs at least one.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Formats     string
	CanFix      bool
}

// Status reports the availability of one requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Requirements lists the known validator tools with the binaries the
// configuration points at.
func Requirements(tools config.Tools) []Requirement {
	return []Requirement{
		{
			Name:        "mp3val",
			Command:     tools.MP3Val,
			Description: "MPEG stream validation and repair",
			Formats:     "mp3",
			CanFix:      true,
		},
		{
			Name:        "flac",
			Command:     tools.Flac,
			Description: "FLAC decode test",
			Formats:     "flac",
		},
		{
			Name:        "oggz-validate",
			Command:     tools.OggzValidate,
			Description: "Ogg bitstream validation",
			Formats:     "ogg",
		},
	}
}

// CheckBinaries evaluates the requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}
