// Package translate converts transcript segments into the target language.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"globaldub/internal/language"
	"globaldub/internal/logging"
	"globaldub/internal/segments"
	"globaldub/internal/services"
	"globaldub/internal/stage"
)

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Handler runs translation as a pipeline stage. Segment timing never
// changes here; only the text does, so a retry after a mid-stage failure
// reproduces the same output.
type Handler struct {
	translator Translator
	sourceLang string
	logger     *slog.Logger
}

// NewHandler creates the translating stage. sourceLang may be empty for
// auto-detection.
func NewHandler(translator Translator, sourceLang string) *Handler {
	return &Handler{translator: translator, sourceLang: sourceLang, logger: logging.NewNop()}
}

// SetLogger installs a job-scoped logger.
func (h *Handler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// Prepare resolves the target language early so a bad code fails fast.
func (h *Handler) Prepare(ctx context.Context, env *stage.Env) error {
	if env.Segments == nil || len(env.Segments.Transcripts()) == 0 {
		return services.Wrap(services.ErrTranslation, "translating", "prepare", "no transcript segments", nil)
	}
	if _, err := language.Resolve(env.Job.TargetLanguage, nil); err != nil {
		return services.Wrap(services.ErrConfiguration, "translating", "prepare", "", err)
	}
	env.Job.SetProgress("Translating", fmt.Sprintf("%d segments", len(env.Segments.Transcripts())), 0)
	return nil
}

// Execute translates every segment. A failed segment keeps its source text
// rather than losing its slot; a transport failure fails the job.
func (h *Handler) Execute(ctx context.Context, env *stage.Env) error {
	target, err := language.Resolve(env.Job.TargetLanguage, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "translating", "", "", err)
	}

	transcripts := env.Segments.Transcripts()
	translated := make([]segments.Translated, 0, len(transcripts))
	for i, seg := range transcripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := h.translator.Translate(ctx, seg.SourceText, h.sourceLang, target.TranslateCode)
		if err != nil {
			return services.Wrap(services.ErrTranslation, "translating",
				fmt.Sprintf("segment_%d", seg.Index), "", err)
		}
		if text == "" {
			// The endpoint occasionally returns nothing for interjections;
			// carrying the source text keeps the segment's slot filled.
			text = seg.SourceText
		}
		translated = append(translated, segments.Translated{Transcript: seg, TargetText: text})
		env.Job.SetProgress("Translating", fmt.Sprintf("segment %d/%d", i+1, len(transcripts)),
			float64(i+1)/float64(len(transcripts))*100)
	}

	if err := env.Segments.SetTranslated(translated); err != nil {
		return services.Wrap(services.ErrTranslation, "translating", "validate", "", err)
	}
	h.logger.Info("translation complete",
		logging.String("target_language", target.TranslateCode),
		logging.Int("segments", len(translated)),
	)
	return nil
}

// HealthCheck verifies the translator is wired.
func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	if h.translator == nil {
		return stage.Unhealthy("translator", "translation service not configured")
	}
	return stage.Healthy("translator")
}
