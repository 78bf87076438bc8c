package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"globaldub/internal/logging"
	"globaldub/internal/pcm"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Track builds the dubbed track: a silent timeline of exactly videoDuration
// seconds with every clip overlaid additively at its placement start.
//
// A clip stretched only to the speed ceiling may run past the next clip's
// placement; the overlap region carries both clips summed. That is the cost
// of never truncating speech, not an error.
func Track(clips []segments.TimedClip, videoDuration float64, rate int) (*pcm.Track, error) {
	if videoDuration <= 0 {
		return nil, fmt.Errorf("assemble: non-positive video duration %v", videoDuration)
	}
	track := pcm.Silence(rate, videoDuration)

	ordered := make([]segments.TimedClip, len(clips))
	copy(ordered, clips)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PlacementStart < ordered[j].PlacementStart
	})

	for _, clip := range ordered {
		if clip.Clip.Empty() {
			continue
		}
		if err := track.OverlayAt(clip.Clip, clip.PlacementStart); err != nil {
			return nil, fmt.Errorf("assemble: segment %d: %w", clip.Index, err)
		}
	}
	return track, nil
}

// Handler runs assembly as a pipeline stage.
type Handler struct {
	rate   int
	logger *slog.Logger
}

// NewHandler creates the assembling stage at the working sample rate.
func NewHandler(sampleRate int) *Handler {
	return &Handler{rate: sampleRate, logger: logging.NewNop()}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare validates the timeline inputs.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.VideoDuration <= 0 {
		return services.Wrap(services.ErrInvalidSegment, "assembling", "prepare",
			fmt.Sprintf("video duration %v", env.VideoDuration), nil)
	}
	env.Job.SetProgress("Assembling", fmt.Sprintf("placing %d clips", len(env.Segments.Clips())), 0)
	return nil
}

// Execute builds the dubbed track.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	track, err := Track(env.Segments.Clips(), env.VideoDuration, h.rate)
	if err != nil {
		return services.Wrap(services.ErrInvalidSegment, "assembling", "", "", err)
	}
	env.DubbedTrack = track
	h.logger.Debug("dubbed track assembled",
		logging.Float64("duration_seconds", track.Duration()),
		logging.Int("clips", len(env.Segments.Clips())),
	)
	env.Job.SetProgress("Assembling", "dubbed track assembled", 100)
	return nil
}

// HealthCheck reports readiness; assembly has no external collaborators.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("assembler")
}
