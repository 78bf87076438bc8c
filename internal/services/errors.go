package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Every stage or collaborator failure is tagged with
// exactly one of these via Wrap.
var (
	ErrDownload       = errors.New("download error")
	ErrTranscription  = errors.New("transcription error")
	ErrTranslation    = errors.New("translation error")
	ErrSynthesis      = errors.New("synthesis error")
	ErrInvalidSegment = errors.New("invalid segment")
	ErrMux            = errors.New("mux error")
	ErrTimeout        = errors.New("timeout")
	ErrConfiguration  = errors.New("configuration error")
	ErrExternalTool   = errors.New("external tool error")
)

// Kind is the classified failure category surfaced in job results and logs.
type Kind string

const (
	KindDownload       Kind = "download"
	KindTranscription  Kind = "transcription"
	KindTranslation    Kind = "translation"
	KindSynthesis      Kind = "synthesis"
	KindInvalidSegment Kind = "invalid_segment"
	KindMux            Kind = "mux"
	KindTimeout        Kind = "timeout"
	KindConfiguration  Kind = "configuration"
	KindExternalTool   Kind = "external_tool"
	KindUnknown        Kind = "unknown"
)

var kindMarkers = []struct {
	marker error
	kind   Kind
}{
	{ErrDownload, KindDownload},
	{ErrTranscription, KindTranscription},
	{ErrTranslation, KindTranslation},
	{ErrSynthesis, KindSynthesis},
	{ErrInvalidSegment, KindInvalidSegment},
	{ErrMux, KindMux},
	{ErrTimeout, KindTimeout},
	{ErrConfiguration, KindConfiguration},
	{ErrExternalTool, KindExternalTool},
}

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its tagged kind, or KindUnknown when untagged.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, entry := range kindMarkers {
		if errors.Is(err, entry.marker) {
			return entry.kind
		}
	}
	return KindUnknown
}

// SegmentScoped reports whether an error is recoverable by dropping the
// affected segment instead of failing the whole job.
func SegmentScoped(err error) bool {
	return errors.Is(err, ErrSynthesis) || errors.Is(err, ErrInvalidSegment)
}

// ErrorDetails carries the classified pieces of a wrapped error for
// structured failure logging.
type ErrorDetails struct {
	Kind    Kind
	Message string
	Cause   error
}

// Details extracts structured information from a wrapped error.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{Kind: KindUnknown}
	}
	details := ErrorDetails{
		Kind:    Classify(err),
		Message: strings.TrimSpace(err.Error()),
		Cause:   err,
	}
	return details
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
