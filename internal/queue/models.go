package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a dub job.
type Status string

const (
	StatusPending       Status = "pending"
	StatusDownloading   Status = "downloading"
	StatusDownloaded    Status = "downloaded"
	StatusTranscribing  Status = "transcribing"
	StatusTranscribed   Status = "transcribed"
	StatusTranslating   Status = "translating"
	StatusTranslated    Status = "translated"
	StatusSynthesizing  Status = "synthesizing"
	StatusSynthesized   Status = "synthesized"
	StatusSpeedMatching Status = "speed_matching"
	StatusSpeedMatched  Status = "speed_matched"
	StatusAssembling    Status = "assembling"
	StatusAssembled     Status = "assembled"
	StatusMixing        Status = "mixing"
	StatusMixed         Status = "mixed"
	StatusMuxing        Status = "muxing"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusDownloading,
	StatusDownloaded,
	StatusTranscribing,
	StatusTranscribed,
	StatusTranslating,
	StatusTranslated,
	StatusSynthesizing,
	StatusSynthesized,
	StatusSpeedMatching,
	StatusSpeedMatched,
	StatusAssembling,
	StatusAssembled,
	StatusMixing,
	StatusMixed,
	StatusMuxing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusDownloading:   {},
	StatusTranscribing:  {},
	StatusTranslating:   {},
	StatusSynthesizing:  {},
	StatusSpeedMatching: {},
	StatusAssembling:    {},
	StatusMixing:        {},
	StatusMuxing:        {},
}

// FailureStageTimeout is recorded when a stage deadline, not the stage
// itself, failed the job.
const FailureStageTimeout = "timeout"

// Job represents a dub job persisted in SQLite.
type Job struct {
	ID              int64
	SourceURL       string
	TargetLanguage  string
	OutputPath      string
	Status          Status
	FailureStage    string
	ErrorMessage    string
	Workspace       string
	VideoPath       string
	VideoDuration   float64
	SegmentCount    int
	DroppedSegments int
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (j Job) IsProcessing() bool {
	_, ok := processingStatuses[j.Status]
	return ok
}

// IsTerminal reports whether the job reached a terminal state.
func (j Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// SetProgress updates the three progress fields together.
func (j *Job) SetProgress(stage, message string, percent float64) {
	j.ProgressStage = stage
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetFailed marks the job as failed, recording the failing stage and cause.
func (j *Job) SetFailed(failureStage, message string) {
	j.Status = StatusFailed
	j.FailureStage = failureStage
	j.ErrorMessage = message
	j.ProgressStage = "Failed"
	j.ProgressPercent = 0
	j.ProgressMessage = message
}
