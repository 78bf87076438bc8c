package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
	YtDlp   string `toml:"ytdlp"`
	Whisper string `toml:"whisper"`
	EdgeTTS string `toml:"edge_tts"`
}

// Dubbing contains the timing-and-mixing tunables.
type Dubbing struct {
	// OriginalAudioVolume is the ducking factor applied to the source track, (0,1].
	OriginalAudioVolume float64 `toml:"original_audio_volume"`
	// MaxSpeedFactor is the ceiling on per-segment speed-up, >= 1.0.
	MaxSpeedFactor float64 `toml:"max_speed_factor"`
	// SampleRate is the working sample rate for all in-process audio, Hz.
	SampleRate int `toml:"sample_rate"`
	// TargetLanguage is the default target language code when none is given.
	TargetLanguage string `toml:"target_language"`
}

// Whisper contains transcription settings.
type Whisper struct {
	Model          string `toml:"model"`
	SourceLanguage string `toml:"source_language"`
}

// Translation contains translation endpoint settings.
type Translation struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxChunkChars  int    `toml:"max_chunk_chars"`
}

// TTS contains synthesis settings.
type TTS struct {
	// VoiceOverrides maps a language code to an explicit voice identifier,
	// overriding the built-in voice table.
	VoiceOverrides map[string]string `toml:"voice_overrides"`
}

// Workflow contains orchestration settings.
type Workflow struct {
	MaxConcurrency int `toml:"max_concurrency"`
	// StageTimeoutSeconds bounds each pipeline stage; 0 disables the timeout.
	StageTimeoutSeconds int `toml:"stage_timeout_seconds"`
	DownloadRetries     int `toml:"download_retries"`
	SynthesisRetries    int `toml:"synthesis_retries"`
	// KeepWorkspace retains per-job temp directories after terminal states.
	KeepWorkspace bool `toml:"keep_workspace"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for GlobalDub.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Dubbing       Dubbing       `toml:"dubbing"`
	Whisper       Whisper       `toml:"whisper"`
	Translation   Translation   `toml:"translation"`
	TTS           TTS           `toml:"tts"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	return "~/.config/globaldub/config.toml"
}

// Load reads configuration from path (or the default location when empty),
// applies defaults for missing keys, expands paths, and validates. The second
// return value reports whether a config file was found.
func Load(path string) (*Config, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultConfigPath()
	}
	resolved = ExpandPath(resolved)

	cfg := Default()
	found := false

	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		found = true
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	default:
		return nil, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, found, err
	}
	return &cfg, found, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	resolved := ExpandPath(strings.TrimSpace(path))
	if resolved == "" {
		return errors.New("config path required")
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config already exists at %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the workspace, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func (c *Config) normalize() {
	c.Paths.WorkspaceDir = ExpandPath(strings.TrimSpace(c.Paths.WorkspaceDir))
	c.Paths.OutputDir = ExpandPath(strings.TrimSpace(c.Paths.OutputDir))
	c.Paths.LogDir = ExpandPath(strings.TrimSpace(c.Paths.LogDir))

	c.Dubbing.TargetLanguage = strings.ToLower(strings.TrimSpace(c.Dubbing.TargetLanguage))
	c.Whisper.SourceLanguage = strings.ToLower(strings.TrimSpace(c.Whisper.SourceLanguage))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.TTS.VoiceOverrides == nil {
		c.TTS.VoiceOverrides = map[string]string{}
	}
}
