// Package transcribe turns the extracted audio into timed transcript
// segments.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"

	"globaldub/internal/logging"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Transcriber produces timed transcript segments from a WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, source, outputDir string) ([]segments.Transcript, error)
}

// Handler runs transcription as a pipeline stage.
type Handler struct {
	transcriber Transcriber
	logger      *slog.Logger
}

// NewHandler creates the transcribing stage.
func NewHandler(transcriber Transcriber) *Handler {
	return &Handler{transcriber: transcriber, logger: logging.NewNop()}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare validates the acquisition output.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.AudioPath == "" {
		return services.Wrap(services.ErrTranscription, "transcribing", "prepare", "no audio path", nil)
	}
	if env.VideoDuration <= 0 {
		return services.Wrap(services.ErrTranscription, "transcribing", "prepare",
			fmt.Sprintf("video duration %v", env.VideoDuration), nil)
	}
	env.Job.SetProgress("Transcribing", "running speech recognition", 0)
	return nil
}

// Execute transcribes the audio and installs the validated segment sequence.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	transcripts, err := h.transcriber.Transcribe(ctx, env.AudioPath, env.Workspace)
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcribing", "", "", err)
	}

	store := segments.NewStore(env.VideoDuration)
	if err := store.SetTranscripts(transcripts); err != nil {
		return services.Wrap(services.ErrTranscription, "transcribing", "validate", "", err)
	}
	env.Segments = store
	env.Job.SegmentCount = len(transcripts)

	h.logger.Info("transcription complete",
		logging.Int("segments", len(transcripts)),
	)
	env.Job.SetProgress("Transcribing", fmt.Sprintf("%d segments", len(transcripts)), 100)
	return nil
}

// HealthCheck verifies the transcriber is wired.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.transcriber == nil {
		return stage.Unhealthy("transcriber", "transcription service not configured")
	}
	return stage.Healthy("transcriber")
}
