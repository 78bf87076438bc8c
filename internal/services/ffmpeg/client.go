// Package ffmpeg wraps the ffmpeg and ffprobe binaries for audio
// extraction, format conversion, duration probing, and final muxing.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Client shells out to ffmpeg and ffprobe.
type Client struct {
	ffmpegBinary  string
	ffprobeBinary string
	sampleRate    int
	commandRunner func(ctx context.Context, name string, args ...string) error
	outputRunner  func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient creates a media client at the pipeline's working sample rate.
func NewClient(ffmpegBinary, ffprobeBinary string, sampleRate int) *Client {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Client{ffmpegBinary: ffmpegBinary, ffprobeBinary: ffprobeBinary, sampleRate: sampleRate}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// WithOutputRunner sets a custom output-capturing runner (for testing).
func (c *Client) WithOutputRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.outputRunner = runner
}

// ExtractAudio pulls the audio stream from a video into a mono WAV at the
// working sample rate, the shape Whisper expects.
func (c *Client) ExtractAudio(ctx context.Context, videoPath, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(c.sampleRate),
		"-ac", "1",
		dest,
	}
	if err := c.run(ctx, c.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

// ConvertToWAV transcodes any audio file (the synthesizer emits mp3) into a
// mono WAV at the working sample rate.
func (c *Client) ConvertToWAV(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(c.sampleRate),
		"-ac", "1",
		dest,
	}
	if err := c.run(ctx, c.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg convert: %w", err)
	}
	return nil
}

// Mux replaces the video's audio with the mixed WAV track, copying the video
// stream and encoding audio to AAC.
func (c *Client) Mux(ctx context.Context, videoPath, audioPath, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		dest,
	}
	if err := c.run(ctx, c.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg mux: %w", err)
	}
	return nil
}

// ProbeDuration returns the container duration of a media file in seconds.
func (c *Client) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	output, err := c.output(ctx, c.ffprobeBinary, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	text := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", text, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe: non-positive duration %v", duration)
	}
	return duration, nil
}

func (c *Client) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (c *Client) output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.outputRunner != nil {
		return c.outputRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}
