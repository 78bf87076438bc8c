package pcm

import (
	"fmt"
	"math"
)

// Track is a mono audio buffer. Samples are normalized to [-1, 1] except
// transiently during mixing, where HardClip restores the range.
type Track struct {
	Rate    int
	Samples []float64
}

// New wraps samples at the given rate.
func New(rate int, samples []float64) *Track {
	return &Track{Rate: rate, Samples: samples}
}

// Silence returns a zeroed track of the given duration in seconds.
func Silence(rate int, seconds float64) *Track {
	n := SampleCount(rate, seconds)
	return &Track{Rate: rate, Samples: make([]float64, n)}
}

// SampleCount converts a duration in seconds to a sample count at rate.
func SampleCount(rate int, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(rate)))
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	if t == nil || t.Rate == 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.Rate)
}

// Empty reports whether the track holds no samples.
func (t *Track) Empty() bool {
	return t == nil || len(t.Samples) == 0
}

// Clone returns a deep copy.
func (t *Track) Clone() *Track {
	cp := make([]float64, len(t.Samples))
	copy(cp, t.Samples)
	return &Track{Rate: t.Rate, Samples: cp}
}

// Conform pads with trailing silence or trims so the track holds exactly n
// samples. Used to pin decoded audio to the video's timeline length.
func (t *Track) Conform(n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case len(t.Samples) > n:
		t.Samples = t.Samples[:n]
	case len(t.Samples) < n:
		t.Samples = append(t.Samples, make([]float64, n-len(t.Samples))...)
	}
}

// OverlayAt adds clip's samples into the track starting at the given offset
// in seconds. Overlapping audio sums; anything past the track end is
// discarded. The clip must share the track's sample rate.
func (t *Track) OverlayAt(clip *Track, offsetSeconds float64) error {
	if clip == nil || len(clip.Samples) == 0 {
		return nil
	}
	if clip.Rate != t.Rate {
		return fmt.Errorf("overlay: rate mismatch %d vs %d", clip.Rate, t.Rate)
	}
	start := SampleCount(t.Rate, offsetSeconds)
	if start >= len(t.Samples) {
		return nil
	}
	for i, s := range clip.Samples {
		idx := start + i
		if idx >= len(t.Samples) {
			break
		}
		t.Samples[idx] += s
	}
	return nil
}

// Scale multiplies every sample by factor in place.
func (t *Track) Scale(factor float64) {
	for i := range t.Samples {
		t.Samples[i] *= factor
	}
}

// HardClip clamps every sample to [-1, 1] in place. Summed overlays may
// exceed the representable range; clipping is the accepted lossy behavior.
func (t *Track) HardClip() {
	for i, s := range t.Samples {
		if s > 1 {
			t.Samples[i] = 1
		} else if s < -1 {
			t.Samples[i] = -1
		}
	}
}

// Peak returns the maximum absolute sample value.
func (t *Track) Peak() float64 {
	peak := 0.0
	for _, s := range t.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}
