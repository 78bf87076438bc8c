package assemble

import (
	"context"
	"math"
	"testing"

	"globaldub/internal/pcm"
	"globaldub/internal/queue"
	"globaldub/internal/segments"
	"globaldub/internal/stage"
)

const rate = 16000

func constantClip(seconds, value float64) *pcm.Track {
	clip := pcm.Silence(rate, seconds)
	for i := range clip.Samples {
		clip.Samples[i] = value
	}
	return clip
}

func TestTrackDurationMatchesVideo(t *testing.T) {
	clips := []segments.TimedClip{
		{Index: 0, Clip: constantClip(1, 0.5), PlacementStart: 0, AppliedSpeedFactor: 1},
		{Index: 1, Clip: constantClip(2, 0.5), PlacementStart: 3, AppliedSpeedFactor: 1},
	}
	track, err := Track(clips, 10, rate)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if got, want := len(track.Samples), pcm.SampleCount(rate, 10); got != want {
		t.Fatalf("track holds %d samples, want %d", got, want)
	}
}

func TestTrackPlacesClipsAtSegmentStarts(t *testing.T) {
	clips := []segments.TimedClip{
		{Index: 0, Clip: constantClip(1, 0.25), PlacementStart: 2},
	}
	track, err := Track(clips, 5, rate)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	// Before the placement the timeline is silent.
	if track.Samples[pcm.SampleCount(rate, 1)] != 0 {
		t.Fatal("expected silence before placement")
	}
	at := pcm.SampleCount(rate, 2)
	if track.Samples[at] != 0.25 {
		t.Fatalf("sample at placement = %v, want 0.25", track.Samples[at])
	}
	after := pcm.SampleCount(rate, 3.5)
	if track.Samples[after] != 0 {
		t.Fatal("expected silence after the clip ends")
	}
}

func TestTrackSumsOverlaps(t *testing.T) {
	clips := []segments.TimedClip{
		{Index: 0, Clip: constantClip(2, 0.3), PlacementStart: 0},
		{Index: 1, Clip: constantClip(2, 0.4), PlacementStart: 1},
	}
	track, err := Track(clips, 4, rate)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	mid := pcm.SampleCount(rate, 1.5)
	if math.Abs(track.Samples[mid]-0.7) > 1e-9 {
		t.Fatalf("overlap sample = %v, want 0.7", track.Samples[mid])
	}
	solo := pcm.SampleCount(rate, 0.5)
	if math.Abs(track.Samples[solo]-0.3) > 1e-9 {
		t.Fatalf("solo sample = %v, want 0.3", track.Samples[solo])
	}
}

func TestTrackClampsAtVideoEnd(t *testing.T) {
	// Clip runs 2s past the end of a 3s video.
	clips := []segments.TimedClip{
		{Index: 0, Clip: constantClip(3, 0.5), PlacementStart: 2},
	}
	track, err := Track(clips, 3, rate)
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if got, want := len(track.Samples), pcm.SampleCount(rate, 3); got != want {
		t.Fatalf("track holds %d samples, want %d", got, want)
	}
	last := track.Samples[len(track.Samples)-1]
	if last != 0.5 {
		t.Fatalf("clip should fill up to the boundary, last sample = %v", last)
	}
}

func TestTrackRejectsNonPositiveDuration(t *testing.T) {
	if _, err := Track(nil, 0, rate); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestHandlerBuildsDubbedTrack(t *testing.T) {
	store := segments.NewStore(6)
	store.SetClips([]segments.TimedClip{
		{Index: 0, Clip: constantClip(1, 0.2), PlacementStart: 1, AppliedSpeedFactor: 1},
	})
	env := &stage.Env{
		Job:           &queue.Job{ID: 1},
		Segments:      store,
		VideoDuration: 6,
	}

	handler := NewHandler(rate)
	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if env.DubbedTrack == nil {
		t.Fatal("expected dubbed track to be set")
	}
	if got, want := len(env.DubbedTrack.Samples), pcm.SampleCount(rate, 6); got != want {
		t.Fatalf("dubbed track holds %d samples, want %d", got, want)
	}
}
