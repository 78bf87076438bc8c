// Package acquire downloads the source video and extracts its audio track.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"globaldub/internal/logging"
	"globaldub/internal/pcm"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Downloader fetches a source video into the workspace.
type Downloader interface {
	Download(ctx context.Context, url, workspace string) (string, error)
}

// Media probes and extracts audio from downloaded video.
type Media interface {
	ExtractAudio(ctx context.Context, videoPath, dest string) error
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// Handler runs acquisition as a pipeline stage: download, probe duration,
// extract mono audio at the working rate, and decode it for the mixer.
type Handler struct {
	downloader Downloader
	media      Media
	retries    int
	sampleRate int
	logger     *slog.Logger
}

// NewHandler creates the downloading stage.
func NewHandler(downloader Downloader, media Media, retries, sampleRate int) *Handler {
	if retries < 1 {
		retries = 1
	}
	return &Handler{
		downloader: downloader,
		media:      media,
		retries:    retries,
		sampleRate: sampleRate,
		logger:     logging.NewNop(),
	}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare validates the source URL.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if strings.TrimSpace(env.Job.SourceURL) == "" {
		return services.Wrap(services.ErrDownload, "downloading", "prepare", "source url required", nil)
	}
	env.Job.SetProgress("Downloading", "fetching source video", 0)
	return nil
}

// Execute downloads the video and prepares the original audio track.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	videoPath, err := h.download(ctx, env)
	if err != nil {
		return services.Wrap(services.ErrDownload, "downloading", "download", env.Job.SourceURL, err)
	}
	env.VideoPath = videoPath
	env.Job.VideoPath = videoPath
	env.Job.SetProgress("Downloading", "probing duration", 50)

	duration, err := h.media.ProbeDuration(ctx, videoPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "downloading", "probe", videoPath, err)
	}
	env.VideoDuration = duration
	env.Job.VideoDuration = duration

	audioPath := filepath.Join(env.Workspace, "source_audio.wav")
	if err := h.media.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "downloading", "extract_audio", videoPath, err)
	}
	env.AudioPath = audioPath

	original, err := pcm.DecodeWAVFile(audioPath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "downloading", "decode_audio", audioPath, err)
	}
	// The decoder may carry a frame or two of codec padding; pin the track
	// to the probed video length so every later stage shares one timeline.
	original.Conform(pcm.SampleCount(h.sampleRate, duration))
	env.OriginalAudio = original

	h.logger.Info("source acquired",
		logging.String("video", videoPath),
		logging.Float64("duration_seconds", duration),
	)
	env.Job.SetProgress("Downloading", "source ready", 100)
	return nil
}

func (h *Handler) download(ctx context.Context, env *stage.Env) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= h.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		path, err := h.downloader.Download(ctx, env.Job.SourceURL, env.Workspace)
		if err == nil {
			return path, nil
		}
		lastErr = err
		h.logger.Warn("download attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("retries", h.retries),
			logging.Error(err),
		)
	}
	return "", fmt.Errorf("after %d attempts: %w", h.retries, lastErr)
}

// HealthCheck verifies the collaborators are wired.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.downloader == nil || h.media == nil {
		return stage.Unhealthy("acquirer", "download clients not configured")
	}
	return stage.Healthy("acquirer")
}
