// Package language maps dubbing language codes to translation targets,
// neural TTS voices, and human-readable display names.
package language

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Voice selection follows the built-in catalog below. Codes carry an
// optional gender suffix ("es-m") that picks an alternate voice for the
// same translation target.
var voiceCatalog = map[string]string{
	"es":   "es-MX-DaliaNeural",
	"es-f": "es-MX-DaliaNeural",
	"es-m": "es-MX-JorgeNeural",
	"pt":   "pt-BR-FranciscaNeural",
	"fr":   "fr-FR-DeniseNeural",
	"de":   "de-DE-KatjaNeural",
	"it":   "it-IT-ElsaNeural",
	"ja":   "ja-JP-NanamiNeural",
	"ko":   "ko-KR-SunHiNeural",
	"zh":   "zh-CN-XiaoxiaoNeural",
	"ar":   "ar-SA-ZariyahNeural",
	"hi":   "hi-IN-SwaraNeural",
	"ru":   "ru-RU-SvetlanaNeural",
}

const fallbackVoice = "es-MX-DaliaNeural"

// Target describes one resolved dubbing language.
type Target struct {
	// Code is the user-facing selector, possibly with a gender suffix.
	Code string
	// TranslateCode is the bare ISO 639-1 code sent to the translator.
	TranslateCode string
	// Voice is the neural TTS voice name.
	Voice string
	// DisplayName is the English name of the language.
	DisplayName string
}

// Resolve maps a language code to its dubbing target. Overrides take
// precedence over the built-in catalog; unknown codes fall back to the
// bare two-letter prefix and finally to the default Spanish voice.
func Resolve(code string, overrides map[string]string) (Target, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Target{}, fmt.Errorf("language code required")
	}

	translateCode := code
	if idx := strings.IndexByte(code, '-'); idx > 0 {
		translateCode = code[:idx]
	}
	tag, err := language.Parse(translateCode)
	if err != nil {
		return Target{}, fmt.Errorf("unrecognized language code %q: %w", code, err)
	}

	voice := fallbackVoice
	if v, ok := voiceCatalog[code]; ok {
		voice = v
	} else if v, ok := voiceCatalog[translateCode]; ok {
		voice = v
	}
	if overrides != nil {
		if v, ok := overrides[code]; ok && strings.TrimSpace(v) != "" {
			voice = v
		} else if v, ok := overrides[translateCode]; ok && strings.TrimSpace(v) != "" {
			voice = v
		}
	}

	return Target{
		Code:          code,
		TranslateCode: translateCode,
		Voice:         voice,
		DisplayName:   display.English.Tags().Name(tag),
	}, nil
}

// Supported returns the built-in targets sorted by code, for display.
func Supported() []Target {
	codes := make([]string, 0, len(voiceCatalog))
	for code := range voiceCatalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	targets := make([]Target, 0, len(codes))
	for _, code := range codes {
		target, err := Resolve(code, nil)
		if err != nil {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}
