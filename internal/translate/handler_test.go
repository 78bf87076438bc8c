package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"globaldub/internal/queue"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

type fakeTranslator struct {
	prefix  string
	failOn  string
	returns map[string]string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return "", errors.New("endpoint unreachable")
	}
	if out, ok := f.returns[text]; ok {
		return out, nil
	}
	return f.prefix + text, nil
}

func newEnv(t *testing.T) *stage.Env {
	t.Helper()
	store := segments.NewStore(10)
	if err := store.SetTranscripts([]segments.Transcript{
		{Index: 0, Start: 0, End: 2, SourceText: "Hello."},
		{Index: 1, Start: 2, End: 4, SourceText: "Goodbye."},
	}); err != nil {
		t.Fatalf("SetTranscripts: %v", err)
	}
	return &stage.Env{
		Job:      &queue.Job{ID: 1, TargetLanguage: "es"},
		Segments: store,
	}
}

func TestExecuteTranslatesAllSegments(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeTranslator{prefix: "ES:"}, "en")

	if err := handler.Prepare(context.Background(), env); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	translated := env.Segments.Translated()
	if len(translated) != 2 {
		t.Fatalf("translated %d segments", len(translated))
	}
	if translated[0].TargetText != "ES:Hello." {
		t.Fatalf("text = %q", translated[0].TargetText)
	}
	// Timing is carried through unchanged.
	if translated[1].Start != 2 || translated[1].End != 4 {
		t.Fatalf("timing changed: %#v", translated[1])
	}
}

func TestExecuteFailsJobOnTransportError(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeTranslator{failOn: "Goodbye"}, "en")

	err := handler.Execute(context.Background(), env)
	if !errors.Is(err, services.ErrTranslation) {
		t.Fatalf("expected translation error, got %v", err)
	}
	if len(env.Segments.Translated()) != 0 {
		t.Fatal("partial translation must not be installed")
	}
}

func TestExecuteKeepsSourceTextForEmptyResult(t *testing.T) {
	env := newEnv(t)
	handler := NewHandler(&fakeTranslator{returns: map[string]string{"Hello.": ""}, prefix: "ES:"}, "en")

	if err := handler.Execute(context.Background(), env); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := env.Segments.Translated()[0].TargetText; got != "Hello." {
		t.Fatalf("text = %q, want source fallback", got)
	}
}

func TestPrepareRejectsUnknownLanguage(t *testing.T) {
	env := newEnv(t)
	env.Job.TargetLanguage = "zz9"
	handler := NewHandler(&fakeTranslator{}, "en")

	if err := handler.Prepare(context.Background(), env); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
