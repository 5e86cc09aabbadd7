package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"chaptermux/internal/config"
)

// Requirement defines an external binary chaptermux delegates to.
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
	Path        string
	Detail      string
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
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Requirements lists the binaries the configured backend needs. Tools the
// backend never invokes are reported as optional.
func Requirements(cfg *config.Config) []Requirement {
	native := cfg.Remux.Backend != config.BackendFFmpeg
	return []Requirement{
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Reads media duration for chapter validation",
		},
		{
			Name:        "MP4Box",
			Command:     cfg.Tools.MP4Box,
			Description: "Writes chapters into MP4/MOV files (native backend)",
			Optional:    !native,
		},
		{
			Name:        "mkvmerge",
			Command:     cfg.Tools.MKVMerge,
			Description: "Writes chapters into Matroska files (native backend)",
			Optional:    !native,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Writes chapters into any supported file (ffmpeg backend)",
			Optional:    native,
		},
	}
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
