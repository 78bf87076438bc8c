// Package synthesize renders each translated segment as speech with a
// neural voice and decodes it into the pipeline's working audio format.
package synthesize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"globaldub/internal/language"
	"globaldub/internal/logging"
	"globaldub/internal/pcm"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Synthesizer renders text as speech into a media file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, dest string) error
}

// Converter transcodes synthesized media into mono WAV at the working rate.
type Converter interface {
	ConvertToWAV(ctx context.Context, source, dest string) error
}

// Handler runs synthesis as a pipeline stage. Synthesis failures are
// segment-scoped: a segment that keeps failing is dropped and its window
// stays silent, but the job only fails when every segment is lost.
type Handler struct {
	synthesizer    Synthesizer
	converter      Converter
	voiceOverrides map[string]string
	retries        int
	logger         *slog.Logger
}

// NewHandler creates the synthesizing stage. retries is the number of extra
// attempts after a failed synthesis.
func NewHandler(synthesizer Synthesizer, converter Converter, voiceOverrides map[string]string, retries int) *Handler {
	if retries < 0 {
		retries = 0
	}
	return &Handler{
		synthesizer:    synthesizer,
		converter:      converter,
		voiceOverrides: voiceOverrides,
		retries:        retries,
		logger:         logging.NewNop(),
	}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare resolves the voice and creates the synthesis scratch directory.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.Segments == nil || len(env.Segments.Translated()) == 0 {
		return services.Wrap(services.ErrSynthesis, "synthesizing", "prepare", "no translated segments", nil)
	}
	if _, err := language.Resolve(env.Job.TargetLanguage, h.voiceOverrides); err != nil {
		return services.Wrap(services.ErrConfiguration, "synthesizing", "prepare", "", err)
	}
	if err := os.MkdirAll(filepath.Join(env.Workspace, "tts"), 0o755); err != nil {
		return services.Wrap(services.ErrSynthesis, "synthesizing", "prepare", "scratch dir", err)
	}
	env.Job.SetProgress("Synthesizing", fmt.Sprintf("%d segments", len(env.Segments.Translated())), 0)
	return nil
}

// Execute synthesizes every translated segment.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	target, err := language.Resolve(env.Job.TargetLanguage, h.voiceOverrides)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "synthesizing", "", "", err)
	}

	translated := env.Segments.Translated()
	for i, seg := range translated {
		if err := ctx.Err(); err != nil {
			return err
		}
		clip, err := h.renderSegment(ctx, env, seg, target.Voice)
		if err != nil {
			env.Segments.RecordDrop(seg.Index, "synthesizing", err.Error())
			h.logger.Warn("segment dropped",
				logging.Int(logging.FieldSegment, seg.Index),
				logging.Error(err),
			)
			continue
		}
		if err := env.Segments.AddSynthesized(segments.Synthesized{Translated: seg, Clip: clip}); err != nil {
			return services.Wrap(services.ErrSynthesis, "synthesizing",
				fmt.Sprintf("segment_%d", seg.Index), "", err)
		}
		env.Job.SetProgress("Synthesizing", fmt.Sprintf("segment %d/%d", i+1, len(translated)),
			float64(i+1)/float64(len(translated))*100)
	}

	env.Job.DroppedSegments = len(env.Segments.Drops())
	if len(env.Segments.Synthesized()) == 0 {
		return services.Wrap(services.ErrSynthesis, "synthesizing", "",
			"every segment failed synthesis", nil)
	}
	h.logger.Info("synthesis complete",
		logging.String("voice", target.Voice),
		logging.Int("segments", len(env.Segments.Synthesized())),
		logging.Int("dropped", env.Job.DroppedSegments),
	)
	return nil
}

func (h *Handler) renderSegment(ctx context.Context, env *stage.Env, seg segments.Translated, voice string) (*pcm.Track, error) {
	mediaPath := filepath.Join(env.Workspace, "tts", fmt.Sprintf("seg_%03d.mp3", seg.Index))
	wavPath := filepath.Join(env.Workspace, "tts", fmt.Sprintf("seg_%03d.wav", seg.Index))

	var lastErr error
	for attempt := 0; attempt <= h.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lastErr = h.synthesizer.Synthesize(ctx, seg.TargetText, voice, mediaPath)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("synthesize: %w", lastErr)
	}

	if err := h.converter.ConvertToWAV(ctx, mediaPath, wavPath); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	clip, err := pcm.DecodeWAVFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if clip.Empty() {
		return nil, fmt.Errorf("synthesis produced silent clip")
	}
	return clip, nil
}

// HealthCheck verifies the collaborators are wired.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.synthesizer == nil || h.converter == nil {
		return stage.Unhealthy("synthesizer", "synthesis clients not configured")
	}
	return stage.Healthy("synthesizer")
}
