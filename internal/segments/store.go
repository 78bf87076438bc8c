package segments

import (
	"errors"
	"fmt"
)

// Drop records a segment removed by a recoverable, segment-scoped failure.
type Drop struct {
	Index  int
	Stage  string
	Reason string
}

// Store carries one job's segments through the pipeline stages. Data flows
// strictly forward; each setter validates against the previous stage's
// output. A Store belongs to a single job and is not safe for concurrent use.
type Store struct {
	videoDuration float64

	transcripts []Transcript
	translated  []Translated
	synthesized []Synthesized
	clips       []TimedClip
	drops       []Drop
}

// NewStore creates a store for a job whose video runs videoDuration seconds.
func NewStore(videoDuration float64) *Store {
	return &Store{videoDuration: videoDuration}
}

// VideoDuration returns the job's video length in seconds.
func (s *Store) VideoDuration() float64 {
	return s.videoDuration
}

// SetTranscripts installs the transcription output after validating the
// sequence invariants.
func (s *Store) SetTranscripts(segs []Transcript) error {
	if err := ValidateSequence(segs, s.videoDuration); err != nil {
		return err
	}
	s.transcripts = segs
	return nil
}

// Transcripts returns the ordered transcript segments.
func (s *Store) Transcripts() []Transcript {
	return s.transcripts
}

// SetTranslated installs the translation output. Every transcript segment
// must have a translation, in the same order.
func (s *Store) SetTranslated(segs []Translated) error {
	if len(segs) != len(s.transcripts) {
		return fmt.Errorf("translated %d segments, want %d", len(segs), len(s.transcripts))
	}
	for i, seg := range segs {
		if seg.Index != s.transcripts[i].Index {
			return fmt.Errorf("translated segment %d carries index %d", i, seg.Index)
		}
		if seg.TargetText == "" {
			return fmt.Errorf("translated segment %d: empty target text", i)
		}
	}
	s.translated = segs
	return nil
}

// Translated returns the ordered translated segments.
func (s *Store) Translated() []Translated {
	return s.translated
}

// AddSynthesized appends one segment's synthesis output. Segments whose
// synthesis failed are recorded via RecordDrop instead.
func (s *Store) AddSynthesized(seg Synthesized) error {
	if seg.Clip.Empty() {
		return errors.New("synthesized segment with empty clip")
	}
	if n := len(s.synthesized); n > 0 && s.synthesized[n-1].Index >= seg.Index {
		return fmt.Errorf("synthesized segment %d arrived out of order", seg.Index)
	}
	s.synthesized = append(s.synthesized, seg)
	return nil
}

// Synthesized returns the ordered synthesized segments (dropped ones absent).
func (s *Store) Synthesized() []Synthesized {
	return s.synthesized
}

// RecordDrop marks a segment as dropped by a segment-scoped failure. Its
// time window stays silent in the dubbed track.
func (s *Store) RecordDrop(index int, stage, reason string) {
	s.drops = append(s.drops, Drop{Index: index, Stage: stage, Reason: reason})
}

// Drops returns the recorded segment drops.
func (s *Store) Drops() []Drop {
	return s.drops
}

// SetClips installs the speed matcher output.
func (s *Store) SetClips(clips []TimedClip) {
	s.clips = clips
}

// Clips returns the timed clips in placement order.
func (s *Store) Clips() []TimedClip {
	return s.clips
}
