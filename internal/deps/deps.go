// Package deps reports the availability of the external binaries lipsync
// drives. Nothing here executes the tools; it only resolves them from PATH
// so the CLI can explain a broken environment before a render starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"lipsync/internal/config"
)

// Requirement defines an external dependency lipsync relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the configured tool binaries.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "Rhubarb", Command: cfg.Tools.Rhubarb, Description: "Phoneme alignment from narration audio"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Audio transcoding and video composition"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Audio duration and stream inspection"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
