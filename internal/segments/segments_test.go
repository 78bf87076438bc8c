package segments

import (
	"strings"
	"testing"

	"globaldub/internal/pcm"
)

func validSequence() []Transcript {
	return []Transcript{
		{Index: 0, Start: 0, End: 2, SourceText: "hi"},
		{Index: 1, Start: 2, End: 4, SourceText: "bye"},
	}
}

func TestValidateSequenceAccepts(t *testing.T) {
	if err := ValidateSequence(validSequence(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSequenceToleratesOverlap(t *testing.T) {
	segs := []Transcript{
		{Index: 0, Start: 0, End: 3, SourceText: "one"},
		{Index: 1, Start: 2.5, End: 5, SourceText: "two"},
	}
	if err := ValidateSequence(segs, 10); err != nil {
		t.Fatalf("overlap should be tolerated: %v", err)
	}
}

func TestValidateSequenceRejects(t *testing.T) {
	cases := []struct {
		name string
		segs []Transcript
		want string
	}{
		{
			"index gap",
			[]Transcript{{Index: 0, Start: 0, End: 1, SourceText: "a"}, {Index: 2, Start: 1, End: 2, SourceText: "b"}},
			"contiguity",
		},
		{
			"inverted window",
			[]Transcript{{Index: 0, Start: 2, End: 1, SourceText: "a"}},
			"invalid window",
		},
		{
			"empty text",
			[]Transcript{{Index: 0, Start: 0, End: 1, SourceText: "  "}},
			"empty source text",
		},
		{
			"unsorted",
			[]Transcript{
				{Index: 0, Start: 5, End: 6, SourceText: "a"},
				{Index: 1, Start: 1, End: 2, SourceText: "b"},
			},
			"out of order",
		},
		{
			"past duration",
			[]Transcript{{Index: 0, Start: 0, End: 11, SourceText: "a"}},
			"past video duration",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSequence(tc.segs, 10)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(10)
	if err := store.SetTranscripts(validSequence()); err != nil {
		t.Fatalf("SetTranscripts failed: %v", err)
	}

	translated := []Translated{
		{Transcript: store.Transcripts()[0], TargetText: "hola"},
		{Transcript: store.Transcripts()[1], TargetText: "adios"},
	}
	if err := store.SetTranslated(translated); err != nil {
		t.Fatalf("SetTranslated failed: %v", err)
	}

	clip := pcm.Silence(16000, 1.5)
	clip.Samples[0] = 0.5
	if err := store.AddSynthesized(Synthesized{Translated: translated[0], Clip: clip}); err != nil {
		t.Fatalf("AddSynthesized failed: %v", err)
	}
	store.RecordDrop(1, "synthesizing", "tts exit status 1")

	if len(store.Synthesized()) != 1 {
		t.Fatalf("expected one synthesized segment, got %d", len(store.Synthesized()))
	}
	drops := store.Drops()
	if len(drops) != 1 || drops[0].Index != 1 {
		t.Fatalf("unexpected drops: %#v", drops)
	}
}

func TestStoreSetTranslatedCountMismatch(t *testing.T) {
	store := NewStore(10)
	if err := store.SetTranscripts(validSequence()); err != nil {
		t.Fatalf("SetTranscripts failed: %v", err)
	}
	if err := store.SetTranslated(nil); err == nil {
		t.Fatal("expected error for missing translations")
	}
}

func TestStoreAddSynthesizedRejectsEmptyClip(t *testing.T) {
	store := NewStore(10)
	seg := Synthesized{Translated: Translated{TargetText: "hola"}}
	if err := store.AddSynthesized(seg); err == nil {
		t.Fatal("expected error for empty clip")
	}
}
