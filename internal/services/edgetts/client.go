// Package edgetts generates speech with the edge-tts CLI.
package edgetts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Client wraps the edge-tts binary.
type Client struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewClient creates a synthesis client for the given edge-tts binary.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = "edge-tts"
	}
	return &Client{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// Synthesize renders text with the given neural voice into dest (mp3).
func (c *Client) Synthesize(ctx context.Context, text, voice, dest string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("synthesize: text required")
	}
	if voice == "" {
		return fmt.Errorf("synthesize: voice required")
	}

	args := []string{
		"--text", text,
		"--voice", voice,
		"--write-media", dest,
	}
	if err := c.run(ctx, c.binary, args...); err != nil {
		return fmt.Errorf("edge-tts: %w", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("edge-tts: synthesis produced no file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("edge-tts: synthesis produced an empty file")
	}
	return nil
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
