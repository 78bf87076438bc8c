package speedmatch

import (
	"context"
	"fmt"
	"log/slog"

	"globaldub/internal/logging"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Handler runs the speed matcher as a pipeline stage.
type Handler struct {
	matcher *Matcher
	logger  *slog.Logger
}

// NewHandler creates the speed-matching stage.
func NewHandler(maxSpeedFactor float64) *Handler {
	return &Handler{
		matcher: New(maxSpeedFactor),
		logger:  logging.NewNop(),
	}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare validates that synthesis produced something to match.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.Segments == nil {
		return services.Wrap(services.ErrInvalidSegment, "speed_matching", "prepare", "no segment store", nil)
	}
	env.Job.SetProgress("Speed matching", fmt.Sprintf("%d clips to fit", len(env.Segments.Synthesized())), 0)
	return nil
}

// Execute converts every synthesized segment into a timed clip. Segments the
// matcher rejects are dropped with a warning; their windows stay silent.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	synthesized := env.Segments.Synthesized()
	clips := make([]segments.TimedClip, 0, len(synthesized))
	for _, seg := range synthesized {
		if err := ctx.Err(); err != nil {
			return err
		}
		clip, err := h.matcher.Match(seg)
		if err != nil {
			if services.SegmentScoped(err) {
				env.Segments.RecordDrop(seg.Index, "speed_matching", err.Error())
				h.logger.Warn("segment dropped",
					logging.Int(logging.FieldSegment, seg.Index),
					logging.Error(err),
				)
				continue
			}
			return err
		}
		if clip.AppliedSpeedFactor > 1.0 {
			h.logger.Debug("clip stretched",
				logging.Int(logging.FieldSegment, seg.Index),
				logging.Float64("factor", clip.AppliedSpeedFactor),
				logging.Float64("window_seconds", seg.Window()),
				logging.Float64("native_seconds", seg.NativeDuration()),
			)
		}
		clips = append(clips, clip)
	}
	env.Segments.SetClips(clips)
	env.Job.DroppedSegments = len(env.Segments.Drops())
	env.Job.SetProgress("Speed matching", fmt.Sprintf("%d clips fitted", len(clips)), 100)
	return nil
}

// HealthCheck reports readiness; the matcher has no external collaborators.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("speed-matcher")
}
