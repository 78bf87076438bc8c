package config

const (
	defaultWorkspaceDir = "~/.local/share/globaldub/workspaces"
	defaultOutputDir    = "./output"
	defaultLogDir       = "~/.local/share/globaldub/logs"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultYtDlpBinary   = "yt-dlp"
	defaultWhisperBinary = "whisper"
	defaultEdgeTTSBinary = "edge-tts"

	// 10% keeps background music and effects faint under the dub.
	defaultOriginalAudioVolume = 0.10
	defaultMaxSpeedFactor      = 1.25
	defaultSampleRate          = 16000

	defaultWhisperModel   = "base"
	defaultSourceLanguage = "en"

	defaultTranslationEndpoint  = "https://translate.googleapis.com/translate_a/single"
	defaultTranslationTimeout   = 30
	defaultTranslationChunkSize = 4500

	defaultTargetLanguage = "es"

	defaultMaxConcurrency      = 2
	defaultStageTimeoutSeconds = 0 // disabled
	defaultDownloadRetries     = 3
	defaultSynthesisRetries    = 1

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			YtDlp:   defaultYtDlpBinary,
			Whisper: defaultWhisperBinary,
			EdgeTTS: defaultEdgeTTSBinary,
		},
		Dubbing: Dubbing{
			OriginalAudioVolume: defaultOriginalAudioVolume,
			MaxSpeedFactor:      defaultMaxSpeedFactor,
			SampleRate:          defaultSampleRate,
			TargetLanguage:      defaultTargetLanguage,
		},
		Whisper: Whisper{
			Model:          defaultWhisperModel,
			SourceLanguage: defaultSourceLanguage,
		},
		Translation: Translation{
			Endpoint:       defaultTranslationEndpoint,
			TimeoutSeconds: defaultTranslationTimeout,
			MaxChunkChars:  defaultTranslationChunkSize,
		},
		TTS: TTS{
			VoiceOverrides: map[string]string{},
		},
		Workflow: Workflow{
			MaxConcurrency:      defaultMaxConcurrency,
			StageTimeoutSeconds: defaultStageTimeoutSeconds,
			DownloadRetries:     defaultDownloadRetries,
			SynthesisRetries:    defaultSynthesisRetries,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
