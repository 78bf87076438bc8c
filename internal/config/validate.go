package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants. It returns an error describing
// every violated constraint.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		problems = append(problems, "paths.workspace_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		problems = append(problems, "paths.output_dir must not be empty")
	}
	if c.Dubbing.OriginalAudioVolume <= 0 || c.Dubbing.OriginalAudioVolume > 1 {
		problems = append(problems, fmt.Sprintf("dubbing.original_audio_volume must be in (0,1], got %v", c.Dubbing.OriginalAudioVolume))
	}
	if c.Dubbing.MaxSpeedFactor < 1.0 {
		problems = append(problems, fmt.Sprintf("dubbing.max_speed_factor must be >= 1.0, got %v", c.Dubbing.MaxSpeedFactor))
	}
	if c.Dubbing.SampleRate < 8000 {
		problems = append(problems, fmt.Sprintf("dubbing.sample_rate must be >= 8000, got %d", c.Dubbing.SampleRate))
	}
	if c.Workflow.MaxConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("workflow.max_concurrency must be >= 1, got %d", c.Workflow.MaxConcurrency))
	}
	if c.Workflow.StageTimeoutSeconds < 0 {
		problems = append(problems, "workflow.stage_timeout_seconds must not be negative")
	}
	if c.Workflow.DownloadRetries < 0 || c.Workflow.SynthesisRetries < 0 {
		problems = append(problems, "workflow retry counts must not be negative")
	}
	if c.Translation.MaxChunkChars < 100 {
		problems = append(problems, fmt.Sprintf("translation.max_chunk_chars must be >= 100, got %d", c.Translation.MaxChunkChars))
	}
	switch c.Logging.Format {
	case "", "console", "json", "auto":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console, json, or auto, got %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
