package ffmpeg

import (
	"context"
	"testing"
)

func capture(t *testing.T, client *Client) *[]string {
	t.Helper()
	var args []string
	client.WithCommandRunner(func(ctx context.Context, name string, a ...string) error {
		args = append([]string{name}, a...)
		return nil
	})
	return &args
}

func contains(args []string, want ...string) bool {
	seen := map[string]bool{}
	for _, a := range args {
		seen[a] = true
	}
	for _, w := range want {
		if !seen[w] {
			return false
		}
	}
	return true
}

func TestExtractAudioArgs(t *testing.T) {
	client := NewClient("ffmpeg", "ffprobe", 16000)
	args := capture(t, client)

	if err := client.ExtractAudio(context.Background(), "in.mp4", "out.wav"); err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if !contains(*args, "ffmpeg", "-vn", "pcm_s16le", "16000", "-ac", "out.wav") {
		t.Fatalf("unexpected args: %v", *args)
	}
}

func TestMuxArgs(t *testing.T) {
	client := NewClient("ffmpeg", "ffprobe", 16000)
	args := capture(t, client)

	if err := client.Mux(context.Background(), "v.mp4", "a.wav", "out.mp4"); err != nil {
		t.Fatalf("Mux failed: %v", err)
	}
	if !contains(*args, "copy", "aac", "-shortest", "out.mp4") {
		t.Fatalf("unexpected args: %v", *args)
	}
}

func TestProbeDuration(t *testing.T) {
	client := NewClient("ffmpeg", "ffprobe", 16000)
	client.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe" {
			t.Fatalf("binary = %q", name)
		}
		return []byte("12.345\n"), nil
	})

	duration, err := client.ProbeDuration(context.Background(), "v.mp4")
	if err != nil {
		t.Fatalf("ProbeDuration failed: %v", err)
	}
	if duration != 12.345 {
		t.Fatalf("duration = %v", duration)
	}
}

func TestProbeDurationRejectsGarbage(t *testing.T) {
	client := NewClient("", "", 0)
	client.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("N/A"), nil
	})
	if _, err := client.ProbeDuration(context.Background(), "v.mp4"); err == nil {
		t.Fatal("expected parse error")
	}

	client.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("0"), nil
	})
	if _, err := client.ProbeDuration(context.Background(), "v.mp4"); err == nil {
		t.Fatal("expected error for zero duration")
	}
}
