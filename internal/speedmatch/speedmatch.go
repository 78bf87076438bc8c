package speedmatch

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"globaldub/internal/pcm"
	"globaldub/internal/segments"
	"globaldub/internal/services"
)

// Matcher computes and applies per-segment time-stretch factors.
type Matcher struct {
	ceiling float64
}

// New creates a matcher with the given speed-up ceiling (>= 1.0).
func New(maxSpeedFactor float64) *Matcher {
	if maxSpeedFactor < 1.0 {
		maxSpeedFactor = 1.0
	}
	return &Matcher{ceiling: maxSpeedFactor}
}

// Ceiling returns the configured maximum speed factor.
func (m *Matcher) Ceiling() float64 {
	return m.ceiling
}

// RequiredFactor returns the speed-up needed to fit the clip into its window.
func RequiredFactor(nativeDuration, targetWindow float64) float64 {
	return nativeDuration / targetWindow
}

// Match produces the timed clip for one synthesized segment.
//
// requiredFactor <= 1: the clip already fits; no stretch, no trailing pad.
// requiredFactor within the ceiling: stretch to exactly fill the window.
// requiredFactor above the ceiling: stretch by the ceiling only; the result
// overflows the window and the assembler sums the overlap.
func (m *Matcher) Match(seg segments.Synthesized) (segments.TimedClip, error) {
	window := seg.Window()
	if window <= 0 {
		return segments.TimedClip{}, services.Wrap(
			services.ErrInvalidSegment, "speed_matching", "",
			fmt.Sprintf("segment %d: non-positive window %v", seg.Index, window), nil)
	}
	if seg.Clip.Empty() {
		return segments.TimedClip{}, services.Wrap(
			services.ErrInvalidSegment, "speed_matching", "",
			fmt.Sprintf("segment %d: empty audio clip", seg.Index), nil)
	}

	required := RequiredFactor(seg.NativeDuration(), window)
	applied := 1.0
	switch {
	case required <= 1.0:
		// Fits with room to spare. The assembler only needs the placement
		// time, so no trailing silence is added.
	case required <= m.ceiling:
		applied = required
	default:
		applied = m.ceiling
	}

	clip := seg.Clip
	if applied > 1.0 {
		stretched, err := Stretch(clip, applied)
		if err != nil {
			return segments.TimedClip{}, services.Wrap(
				services.ErrInvalidSegment, "speed_matching", "stretch",
				fmt.Sprintf("segment %d", seg.Index), err)
		}
		clip = stretched
	}

	return segments.TimedClip{
		Index:              seg.Index,
		Clip:               clip,
		AppliedSpeedFactor: applied,
		PlacementStart:     seg.Start,
	}, nil
}

// flushPad is fed through the resampler after the clip so its filter tail
// drains before the output is pinned to the expected length.
const flushPad = 512

// Stretch shortens a clip's duration by factor (> 1.0) without changing its
// nominal sample rate. The output holds exactly round(n/factor) samples.
func Stretch(clip *pcm.Track, factor float64) (*pcm.Track, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("stretch factor must be positive, got %v", factor)
	}
	if factor == 1.0 {
		return clip.Clone(), nil
	}
	expected := int(math.Round(float64(len(clip.Samples)) / factor))

	resampler, err := resampling.New(&resampling.Config{
		InputRate:  float64(clip.Rate),
		OutputRate: float64(clip.Rate) / factor,
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	out, err := resampler.Process(clip.Samples)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	tail, err := resampler.Process(make([]float64, flushPad))
	if err != nil {
		return nil, fmt.Errorf("drain resampler: %w", err)
	}
	out = append(out, tail...)

	stretched := pcm.New(clip.Rate, out)
	stretched.Conform(expected)
	return stretched, nil
}
