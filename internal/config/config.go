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
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains working directory and artifact locations.
type Paths struct {
	WorkDir               string `toml:"work_dir" yaml:"work_dir"`
	TranscriptionOutput   string `toml:"transcription_output" yaml:"transcription_output"`
	SummaryOutput         string `toml:"summary_output" yaml:"summary_output"`
	ExistingTranscription string `toml:"existing_transcription" yaml:"existing_transcription"`
	SummaryDocx           string `toml:"summary_docx" yaml:"summary_docx"`
	LogDir                string `toml:"log_dir" yaml:"log_dir"`
}

// Acquisition contains settings for fetching and normalizing remote audio.
type Acquisition struct {
	YtDlpBinary      string `toml:"ytdlp_binary" yaml:"ytdlp_binary"`
	FFmpegBinary     string `toml:"ffmpeg_binary" yaml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary" yaml:"ffprobe_binary"`
	AudioBaseName    string `toml:"audio_basename" yaml:"audio_basename"`
	FallbackBaseName string `toml:"fallback_basename" yaml:"fallback_basename"`
}

// Transcription contains speech-to-text settings.
type Transcription struct {
	Engine        string `toml:"engine" yaml:"engine"`
	Model         string `toml:"model" yaml:"model"`
	Language      string `toml:"language" yaml:"language"`
	WhisperBinary string `toml:"whisper_binary" yaml:"whisper_binary"`
	CUDAEnabled   bool   `toml:"cuda_enabled" yaml:"cuda_enabled"`
	VADMethod     string `toml:"vad_method" yaml:"vad_method"`
	HFToken       string `toml:"hf_token" yaml:"hf_token"`
}

// Generation contains the Ollama endpoint used for summaries.
type Generation struct {
	BaseURL        string `toml:"base_url" yaml:"base_url"`
	Model          string `toml:"model" yaml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Notifications contains optional ntfy settings for run completion notices.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic" yaml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout" yaml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
}

// Config encapsulates all configuration values for vidsum.
//
// Configuration sections by subsystem:
//   - Paths: working directory and output files
//   - Acquisition: yt-dlp, ffmpeg and ffprobe binaries and artifact names
//   - Transcription: whisper engine, model tier and language
//   - Generation: Ollama endpoint, model and request timeout
//   - Notifications: optional ntfy topic
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths" yaml:"paths"`
	Acquisition   Acquisition   `toml:"acquisition" yaml:"acquisition"`
	Transcription Transcription `toml:"transcription" yaml:"transcription"`
	Generation    Generation    `toml:"generation" yaml:"generation"`
	Notifications Notifications `toml:"notifications" yaml:"notifications"`
	Logging       Logging       `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Overrides carries command-line values. Empty fields leave the loaded value untouched.
type Overrides struct {
	WorkDir               string
	TranscriptionOutput   string
	SummaryOutput         string
	ExistingTranscription string
	SummaryDocx           string
	WhisperModel          string
	Language              string
	OllamaModel           string
	OllamaURL             string
	LogLevel              string
	LogFormat             string
}

// ApplyOverrides merges command-line values into the config, then re-normalizes
// and re-validates it.
func (c *Config) ApplyOverrides(o Overrides) error {
	set := func(dst *string, value string) {
		if value = strings.TrimSpace(value); value != "" {
			*dst = value
		}
	}
	set(&c.Paths.WorkDir, o.WorkDir)
	set(&c.Paths.TranscriptionOutput, o.TranscriptionOutput)
	set(&c.Paths.SummaryOutput, o.SummaryOutput)
	set(&c.Paths.ExistingTranscription, o.ExistingTranscription)
	set(&c.Paths.SummaryDocx, o.SummaryDocx)
	set(&c.Transcription.Model, o.WhisperModel)
	set(&c.Transcription.Language, o.Language)
	set(&c.Generation.Model, o.OllamaModel)
	set(&c.Generation.BaseURL, o.OllamaURL)
	set(&c.Logging.Level, o.LogLevel)
	set(&c.Logging.Format, o.LogFormat)

	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// EnsureDirectories creates the working directory, the log directory, and the
// parent directories of every output file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, c.Paths.LogDir}
	for _, file := range []string{c.Paths.TranscriptionOutput, c.Paths.SummaryOutput, c.Paths.SummaryDocx} {
		if strings.TrimSpace(file) != "" {
			dirs = append(dirs, filepath.Dir(file))
		}
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// RequestTimeoutSeconds returns the generation request timeout, falling back to the default.
func (c *Config) RequestTimeoutSeconds() int {
	if c.Generation.TimeoutSeconds > 0 {
		return c.Generation.TimeoutSeconds
	}
	return defaultGenerationTimeoutSeconds
}
