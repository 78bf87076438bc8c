package stage

import (
	"globaldub/internal/pcm"
	"globaldub/internal/queue"
	"globaldub/internal/segments"
)

// Env is the in-memory state a job's stages pass forward. The queue.Job holds
// what survives the process (paths, status, counts); Env holds the working
// artifacts that only live for the duration of the run.
type Env struct {
	Job *queue.Job

	// Workspace is the job-scoped temp directory. Each job owns its own;
	// cleanup of one workspace never touches another job's files.
	Workspace string

	// VideoPath and AudioPath are set by the acquisition stage.
	VideoPath string
	AudioPath string
	// VideoDuration is the probed source duration in seconds.
	VideoDuration float64

	// Segments carries the transcript through translation and synthesis.
	Segments *segments.Store

	// OriginalAudio is the full-length source audio track.
	OriginalAudio *pcm.Track
	// DubbedTrack is the assembled synthetic speech timeline.
	DubbedTrack *pcm.Track
	// MixedTrack is the ducked original plus the dubbed track.
	MixedTrack *pcm.Track
}
