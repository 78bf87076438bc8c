package segments

import (
	"fmt"
	"strings"

	"globaldub/internal/pcm"
)

// Transcript is one contiguous span of source speech.
type Transcript struct {
	// Index is the 0-based position in reading order. Indices are contiguous.
	Index int
	// Start and End are seconds on the source video timeline.
	Start float64
	End   float64
	// SourceText is the transcribed text in the source language.
	SourceText string
}

// Window returns the segment's time window in seconds.
func (t Transcript) Window() float64 {
	return t.End - t.Start
}

// Translated is a transcript segment with its target-language text.
// Immutable once created.
type Translated struct {
	Transcript
	TargetText string
}

// Synthesized is a translated segment with its synthesized audio clip.
type Synthesized struct {
	Translated
	// Clip holds the unmodified synthesis output.
	Clip *pcm.Track
}

// NativeDuration is the clip's unmodified length in seconds.
func (s Synthesized) NativeDuration() float64 {
	return s.Clip.Duration()
}

// TimedClip is the final per-segment artifact placed on the timeline.
type TimedClip struct {
	Index int
	// Clip is the possibly time-stretched audio.
	Clip *pcm.Track
	// AppliedSpeedFactor is the ratio actually applied, in [1, ceiling].
	AppliedSpeedFactor float64
	// PlacementStart equals the segment's original start time.
	PlacementStart float64
}

// ValidateSequence checks the transcript invariants: contiguous 0-based
// indices, sorted by start time, each window inside (0, videoDuration],
// non-empty text. Overlap between consecutive segments is tolerated.
func ValidateSequence(segs []Transcript, videoDuration float64) error {
	prevStart := -1.0
	for i, seg := range segs {
		if seg.Index != i {
			return fmt.Errorf("segment %d: index %d breaks contiguity", i, seg.Index)
		}
		if seg.Start < 0 || seg.End <= seg.Start {
			return fmt.Errorf("segment %d: invalid window [%v, %v)", i, seg.Start, seg.End)
		}
		if videoDuration > 0 && seg.End > videoDuration+timeEpsilon {
			return fmt.Errorf("segment %d: end %v past video duration %v", i, seg.End, videoDuration)
		}
		if strings.TrimSpace(seg.SourceText) == "" {
			return fmt.Errorf("segment %d: empty source text", i)
		}
		if seg.Start < prevStart {
			return fmt.Errorf("segment %d: start %v out of order", i, seg.Start)
		}
		prevStart = seg.Start
	}
	return nil
}

// timeEpsilon absorbs float rounding from external tools reporting segment
// ends a hair past the probed duration.
const timeEpsilon = 0.05
