// Package deps reports whether the external tools mkvmux drives are
// installed and executable.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"mkvmux/internal/config"
)

// Requirement defines an external dependency mkvmux relies on. Command is the
// configured argv prefix; only its first word is resolved.
type Requirement struct {
	Name        string
	Command     []string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Resolved    string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the tools the configuration points at.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return []Requirement{
		{Name: "mkvmerge", Command: cfg.MkvmergeCommand(), Description: "Identifies inputs and writes Matroska files"},
		{Name: "mkvextract", Command: cfg.MkvextractCommand(), Description: "Extracts tracks, attachments, and timestamps", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(strings.Join(req.Command, " ")),
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		var bin string
		if len(req.Command) > 0 {
			bin = strings.TrimSpace(req.Command[0])
		}
		if bin == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(bin)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", bin)
			results = append(results, status)
			continue
		}
		status.Resolved = resolved
		if err := unix.Access(resolved, unix.X_OK); err != nil {
			status.Detail = fmt.Sprintf("binary %q is not executable: %v", resolved, err)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
