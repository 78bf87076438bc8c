package ytdlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadBuildsExpectedInvocation(t *testing.T) {
	workspace := t.TempDir()
	client := NewClient("yt-dlp", 3)

	var gotName string
	var gotArgs []string
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		// Simulate the download so the client's existence check passes.
		return os.WriteFile(filepath.Join(workspace, "source_video.mp4"), []byte("x"), 0o644)
	})

	path, err := client.Download(context.Background(), "https://youtube.com/shorts/abc123", workspace)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "source_video.mp4" {
		t.Fatalf("unexpected path %q", path)
	}
	if gotName != "yt-dlp" {
		t.Fatalf("binary = %q", gotName)
	}

	joined := map[string]bool{}
	for _, a := range gotArgs {
		joined[a] = true
	}
	for _, want := range []string{"-f", Format, "--no-playlist", "--merge-output-format", "mp4", "https://youtube.com/shorts/abc123"} {
		if !joined[want] {
			t.Fatalf("missing arg %q in %v", want, gotArgs)
		}
	}
}

func TestDownloadRequiresURL(t *testing.T) {
	client := NewClient("yt-dlp", 0)
	if _, err := client.Download(context.Background(), "  ", t.TempDir()); err == nil {
		t.Fatal("expected error for blank url")
	}
}

func TestDownloadFailsWhenNoFileProduced(t *testing.T) {
	client := NewClient("yt-dlp", 0)
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	if _, err := client.Download(context.Background(), "https://example.com/v", t.TempDir()); err == nil {
		t.Fatal("expected error when no file appears")
	}
}

func TestVideoID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ"},
		{"https://youtube.com/shorts/abc123", "abc123"},
		{"https://youtube.com/shorts/abc123?feature=share", "abc123"},
		{"https://youtu.be/xyz789/", "xyz789"},
	}
	for _, tc := range cases {
		if got := VideoID(tc.url); got != tc.want {
			t.Fatalf("VideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
