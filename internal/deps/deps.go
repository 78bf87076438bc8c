// Package deps verifies the external tools the dubbing pipeline shells out
// to: ffmpeg/ffprobe for media handling, yt-dlp for downloads, whisper for
// transcription, and edge-tts for speech synthesis.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"globaldub/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
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

// Requirements lists the external binaries for the configured tool paths.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Audio extraction, conversion, and muxing"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Media duration probing"},
		{Name: "yt-dlp", Command: cfg.Tools.YtDlp, Description: "Video download"},
		{Name: "Whisper", Command: cfg.Tools.Whisper, Description: "Speech transcription"},
		{Name: "edge-tts", Command: cfg.Tools.EdgeTTS, Description: "Neural speech synthesis"},
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

// MissingRequired returns the names of unavailable non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
