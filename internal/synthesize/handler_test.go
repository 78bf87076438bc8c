package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"globaldub/internal/pcm"
	"globaldub/internal/queue"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

type fakeSynthesizer struct {
	failOn   string
	failures int
	calls    map[string]int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice, dest string) error {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[text]++
	if f.failOn != "" && strings.Contains(text, f.failOn) && f.calls[text] <= f.failures {
		return errors.New("tts service unavailable")
	}
	return nil
}

type fakeConverter struct{}

func (fakeConverter) ConvertToWAV(ctx context.Context, source, dest string) error {
	return pcm.EncodeWAVFile(dest, pcm.Silence(16000, 1))
}

func newEnv(t *testing.T) *stage.Env {
	t.Helper()
	store := segments.NewStore(10)
	transcripts := []segments.Transcript{
		{Index: 0, Start: 0, End: 2, SourceText: "Hello."},
		{Index: 1, Start: 2, End: 4, SourceText: "Goodbye."},
	}
	if err := store.SetTranscripts(transcripts); err != nil {
		t.Fatalf("SetTranscripts: %v", err)
	}
	if err := store.SetTranslated([]segments.Translated{
		{Transcript: transcripts[0], TargetText: "Hola."},
		{Transcript: transcripts[1], TargetText: "Adios."},
	}); err != nil {
		t.Fatalf("SetTranslated: %v", err)
	}
	return &stage.Env{
		Job:       &queue.Job{ID: 1, TargetLanguage: "es"},
		Workspace: t.TempDir(),
		Segments:  store,
	}
}

func TestExecuteSynthesizesAllSegments(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeSynthesizer{}, fakeConverter{}, nil, 1)

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := len(env.Segments.Synthesized()); got != 2 {
		t.Fatalf("synthesized %d segments", got)
	}
	if env.Job.DroppedSegments != 0 {
		t.Fatalf("dropped = %d", env.Job.DroppedSegments)
	}
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	env := newEnv(t)
	synth := &fakeSynthesizer{failOn: "Hola", failures: 1}
	handler := NewHandler(synth, fakeConverter{}, nil, 1)

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := len(env.Segments.Synthesized()); got != 2 {
		t.Fatalf("synthesized %d segments", got)
	}
	if synth.calls["Hola."] != 2 {
		t.Fatalf("attempts = %d, want retry", synth.calls["Hola."])
	}
}

func TestExecuteDropsPersistentlyFailingSegment(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeSynthesizer{failOn: "Hola", failures: 100}, fakeConverter{}, nil, 1)

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := len(env.Segments.Synthesized()); got != 1 {
		t.Fatalf("synthesized %d segments, want 1", got)
	}
	drops := env.Segments.Drops()
	if len(drops) != 1 || drops[0].Index != 0 || drops[0].Stage != "synthesizing" {
		t.Fatalf("drops = %#v", drops)
	}
	if env.Job.DroppedSegments != 1 {
		t.Fatalf("job dropped = %d", env.Job.DroppedSegments)
	}
}

func TestExecuteFailsWhenEverySegmentDrops(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeSynthesizer{failOn: ".", failures: 100}, fakeConverter{}, nil, 0)

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	err := handler.Execute(context.Background(), env)
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
}

func TestVoiceOverrideReachesSynthesizer(t *testing.T) {
	env := newEnv(t)
	var gotVoice string
	synth := synthFunc(func(ctx context.Context, text, voice, dest string) error {
		gotVoice = voice
		return nil
	})
	handler := NewHandler(synth, fakeConverter{}, map[string]string{"es": "es-ES-ElviraNeural"}, 0)

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if gotVoice != "es-ES-ElviraNeural" {
		t.Fatalf("voice = %q", gotVoice)
	}
}

type synthFunc func(ctx context.Context, text, voice, dest string) error

func (f synthFunc) Synthesize(ctx context.Context, text, voice, dest string) error {
	return f(ctx, text, voice, dest)
}
