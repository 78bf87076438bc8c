package workflow

import (
	"time"

	"globaldub/internal/acquire"
	"globaldub/internal/assemble"
	"globaldub/internal/config"
	"globaldub/internal/mix"
	"globaldub/internal/muxer"
	"globaldub/internal/queue"
	"globaldub/internal/services/edgetts"
	"globaldub/internal/services/ffmpeg"
	"globaldub/internal/services/gtranslate"
	"globaldub/internal/services/whispercli"
	"globaldub/internal/services/ytdlp"
	"globaldub/internal/speedmatch"
	"globaldub/internal/stage"
	"globaldub/internal/synthesize"
	"globaldub/internal/transcribe"
	"globaldub/internal/translate"
)

// Stage binds one pipeline step to its queue statuses.
type Stage struct {
	Name       string
	Processing queue.Status
	Done       queue.Status
	Handler    stage.Handler
}

// Stages builds the production pipeline with real tool clients.
func Stages(cfg *config.Config) []Stage {
	media := ffmpeg.NewClient(cfg.Tools.FFmpeg, cfg.Tools.FFprobe, cfg.Dubbing.SampleRate)
	downloader := ytdlp.NewClient(cfg.Tools.YtDlp, cfg.Workflow.DownloadRetries)
	transcriber := whispercli.NewService(whispercli.Config{
		Binary:   cfg.Tools.Whisper,
		Model:    cfg.Whisper.Model,
		Language: cfg.Whisper.SourceLanguage,
	})
	translator := gtranslate.NewClient(gtranslate.Options{
		Endpoint:      cfg.Translation.Endpoint,
		MaxChunkChars: cfg.Translation.MaxChunkChars,
		Timeout:       time.Duration(cfg.Translation.TimeoutSeconds) * time.Second,
	})
	synthesizer := edgetts.NewClient(cfg.Tools.EdgeTTS)

	return []Stage{
		{
			Name:       "downloading",
			Processing: queue.StatusDownloading,
			Done:       queue.StatusDownloaded,
			Handler:    acquire.NewHandler(downloader, media, cfg.Workflow.DownloadRetries, cfg.Dubbing.SampleRate),
		},
		{
			Name:       "transcribing",
			Processing: queue.StatusTranscribing,
			Done:       queue.StatusTranscribed,
			Handler:    transcribe.NewHandler(transcriber),
		},
		{
			Name:       "translating",
			Processing: queue.StatusTranslating,
			Done:       queue.StatusTranslated,
			Handler:    translate.NewHandler(translator, cfg.Whisper.SourceLanguage),
		},
		{
			Name:       "synthesizing",
			Processing: queue.StatusSynthesizing,
			Done:       queue.StatusSynthesized,
			Handler:    synthesize.NewHandler(synthesizer, media, cfg.TTS.VoiceOverrides, cfg.Workflow.SynthesisRetries),
		},
		{
			Name:       "speed_matching",
			Processing: queue.StatusSpeedMatching,
			Done:       queue.StatusSpeedMatched,
			Handler:    speedmatch.NewHandler(cfg.Dubbing.MaxSpeedFactor),
		},
		{
			Name:       "assembling",
			Processing: queue.StatusAssembling,
			Done:       queue.StatusAssembled,
			Handler:    assemble.NewHandler(cfg.Dubbing.SampleRate),
		},
		{
			Name:       "mixing",
			Processing: queue.StatusMixing,
			Done:       queue.StatusMixed,
			Handler:    mix.NewHandler(cfg.Dubbing.OriginalAudioVolume),
		},
		{
			Name:       "muxing",
			Processing: queue.StatusMuxing,
			Done:       queue.StatusCompleted,
			Handler:    muxer.NewHandler(media, config.ExpandPath(cfg.Paths.OutputDir)),
		},
	}
}
