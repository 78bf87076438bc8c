// Package ytdlp downloads source videos with the yt-dlp tool.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Format caps downloads at 1080p mp4 with m4a audio, merged to mp4.
const Format = "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best"

// Client wraps the yt-dlp binary.
type Client struct {
	binary        string
	socketTimeout int
	retries       int
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewClient creates a download client for the given yt-dlp binary.
func NewClient(binary string, retries int) *Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{binary: binary, socketTimeout: 30, retries: retries}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// Download fetches the video behind url into workspace and returns the
// downloaded file's path.
func (c *Client) Download(ctx context.Context, url, workspace string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("download: url required")
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", fmt.Errorf("download: ensure workspace: %w", err)
	}

	dest := filepath.Join(workspace, "source_video.mp4")
	args := []string{
		"-f", Format,
		"--merge-output-format", "mp4",
		"-o", dest,
		"--no-playlist",
		"--socket-timeout", fmt.Sprintf("%d", c.socketTimeout),
		"--retries", fmt.Sprintf("%d", c.retries),
		url,
	}
	if err := c.run(ctx, c.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	if _, err := os.Stat(dest); err != nil {
		return "", fmt.Errorf("yt-dlp: download produced no file: %w", err)
	}
	return dest, nil
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

// VideoID derives a short identifier from a video URL for output naming.
// Watch URLs use the v query parameter; short-form URLs use the last path
// element with any query string stripped.
func VideoID(url string) string {
	if idx := strings.Index(url, "v="); idx >= 0 {
		id := url[idx+2:]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		if id != "" {
			return id
		}
	}
	trimmed := strings.TrimRight(url, "/")
	id := trimmed
	if slash := strings.LastIndexByte(trimmed, '/'); slash >= 0 {
		id = trimmed[slash+1:]
	}
	if q := strings.IndexByte(id, '?'); q >= 0 {
		id = id[:q]
	}
	if id == "" {
		return "video"
	}
	return id
}
