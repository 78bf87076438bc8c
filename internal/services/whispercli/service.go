// Package whispercli runs the Whisper CLI for speech transcription and
// parses its JSON output into timed transcript segments.
package whispercli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"globaldub/internal/segments"
)

// Config holds transcription settings.
type Config struct {
	Binary string
	// Model is the Whisper model name, e.g. "base".
	Model string
	// Language is the expected source language; empty lets Whisper detect.
	Language string
}

// Service provides Whisper transcription.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a Whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = "whisper"
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

type whisperOutput struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcribe runs Whisper over a WAV file and returns the timed segments.
// outputDir receives Whisper's JSON artifact; it defaults to the source's
// directory.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) ([]segments.Transcript, error) {
	if source == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(source, outputDir)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	return ParseJSON(jsonPath)
}

func (s *Service) buildArgs(source, outputDir string) []string {
	args := []string{
		source,
		"--model", s.cfg.Model,
		"--task", "transcribe",
		"--output_format", "json",
		"--output_dir", outputDir,
		"--fp16", "False",
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ParseJSON loads a Whisper JSON artifact into transcript segments.
// Segments with blank text are skipped; indexes are renumbered so the
// survivors stay contiguous.
func ParseJSON(path string) ([]segments.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	transcripts := make([]segments.Transcript, 0, len(out.Segments))
	for _, seg := range out.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		transcripts = append(transcripts, segments.Transcript{
			Index:      len(transcripts),
			Start:      seg.Start,
			End:        seg.End,
			SourceText: text,
		})
	}
	if len(transcripts) == 0 {
		return nil, fmt.Errorf("whisper output %s holds no speech segments", path)
	}
	return transcripts, nil
}
