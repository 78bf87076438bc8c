package mix

import (
	"context"
	"fmt"
	"log/slog"

	"globaldub/internal/logging"
	"globaldub/internal/pcm"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Tracks mixes the attenuated original under the dubbed track:
//
//	mixed[i] = original[i]*duckingFactor + dubbed[i]
//
// The ducking factor applies to the whole original uniformly; there is no
// sidechain or speech-gated envelope. The result is hard-clipped to [-1, 1]
// and holds exactly as many samples as the dubbed track.
func Tracks(original, dubbed *pcm.Track, duckingFactor float64) (*pcm.Track, error) {
	if dubbed.Empty() {
		return nil, fmt.Errorf("mix: dubbed track is empty")
	}
	if duckingFactor <= 0 || duckingFactor > 1 {
		return nil, fmt.Errorf("mix: ducking factor %v outside (0, 1]", duckingFactor)
	}
	if original != nil && !original.Empty() && original.Rate != dubbed.Rate {
		return nil, fmt.Errorf("mix: rate mismatch %d vs %d", original.Rate, dubbed.Rate)
	}

	mixed := dubbed.Clone()
	if original != nil {
		// The extracted original can differ from the assembled timeline by a
		// frame or two of decoder padding; the dubbed track's length wins.
		for i := range mixed.Samples {
			if i >= len(original.Samples) {
				break
			}
			mixed.Samples[i] += original.Samples[i] * duckingFactor
		}
	}
	mixed.HardClip()
	return mixed, nil
}

// Handler runs the ducking mix as a pipeline stage.
type Handler struct {
	duckingFactor float64
	logger        *slog.Logger
}

// NewHandler creates the mixing stage with the configured original-audio
// attenuation.
func NewHandler(duckingFactor float64) *Handler {
	return &Handler{duckingFactor: duckingFactor, logger: logging.NewNop()}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare checks that assembly produced a dubbed track.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.DubbedTrack == nil || env.DubbedTrack.Empty() {
		return services.Wrap(services.ErrInvalidSegment, "mixing", "prepare", "no dubbed track", nil)
	}
	env.Job.SetProgress("Mixing", "ducking original audio", 0)
	return nil
}

// Execute produces the final mixed track.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	mixed, err := Tracks(env.OriginalAudio, env.DubbedTrack, h.duckingFactor)
	if err != nil {
		return services.Wrap(services.ErrInvalidSegment, "mixing", "", "", err)
	}
	env.MixedTrack = mixed
	h.logger.Debug("tracks mixed",
		logging.Float64("ducking_factor", h.duckingFactor),
		logging.Float64("duration_seconds", mixed.Duration()),
		logging.Float64("peak", mixed.Peak()),
	)
	env.Job.SetProgress("Mixing", "mixed track ready", 100)
	return nil
}

// HealthCheck reports readiness; mixing has no external collaborators.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("mixer")
}
