// Package muxer writes the mixed track back onto the source video and
// produces the final deliverable file.
package muxer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"globaldub/internal/logging"
	"globaldub/internal/pcm"
	"globaldub/internal/services"
	"globaldub/internal/services/ytdlp"
	"globaldub/internal/stage"
)

// Muxer combines a video stream with a replacement audio track.
type Muxer interface {
	Mux(ctx context.Context, videoPath, audioPath, dest string) error
}

// Handler runs muxing as the final pipeline stage.
type Handler struct {
	muxer     Muxer
	outputDir string
	logger    *slog.Logger
}

// NewHandler creates the muxing stage writing deliverables into outputDir.
func NewHandler(muxer Muxer, outputDir string) *Handler {
	return &Handler{muxer: muxer, outputDir: outputDir, logger: logging.NewNop()}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// OutputName derives the deliverable filename for a job without an explicit
// output path.
func OutputName(sourceURL, targetLanguage string) string {
	return fmt.Sprintf("dubbed_%s_%s.mp4", ytdlp.VideoID(sourceURL), targetLanguage)
}

// Prepare validates the mix output and resolves the output path.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.MixedTrack == nil || env.MixedTrack.Empty() {
		return services.Wrap(services.ErrMux, "muxing", "prepare", "no mixed track", nil)
	}
	if env.VideoPath == "" {
		return services.Wrap(services.ErrMux, "muxing", "prepare", "no source video", nil)
	}
	if env.Job.OutputPath == "" {
		env.Job.OutputPath = filepath.Join(h.outputDir, OutputName(env.Job.SourceURL, env.Job.TargetLanguage))
	}
	if err := os.MkdirAll(filepath.Dir(env.Job.OutputPath), 0o755); err != nil {
		return services.Wrap(services.ErrMux, "muxing", "prepare", "output dir", err)
	}
	env.Job.SetProgress("Muxing", "rendering final video", 0)
	return nil
}

// Execute encodes the mixed track and muxes it under the source video.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	mixPath := filepath.Join(env.Workspace, "final_mix.wav")
	if err := pcm.EncodeWAVFile(mixPath, env.MixedTrack); err != nil {
		return services.Wrap(services.ErrMux, "muxing", "encode_mix", mixPath, err)
	}
	if err := h.muxer.Mux(ctx, env.VideoPath, mixPath, env.Job.OutputPath); err != nil {
		return services.Wrap(services.ErrMux, "muxing", "", env.Job.OutputPath, err)
	}
	h.logger.Info("deliverable written",
		logging.String("output", env.Job.OutputPath),
	)
	env.Job.SetProgress("Muxing", "final video written", 100)
	return nil
}

// HealthCheck verifies the muxer is wired.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.muxer == nil {
		return stage.Unhealthy("muxer", "mux client not configured")
	}
	return stage.Healthy("muxer")
}
