package config

import (
	"fmt"
	"os"
	"strings"

	"vidsum/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAcquisition()
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	c.normalizeGeneration()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TranscriptionOutput) == "" {
		c.Paths.TranscriptionOutput = defaultTranscriptionOutput
	}
	if c.Paths.TranscriptionOutput, err = expandPath(c.Paths.TranscriptionOutput); err != nil {
		return fmt.Errorf("paths.transcription_output: %w", err)
	}
	if strings.TrimSpace(c.Paths.SummaryOutput) == "" {
		c.Paths.SummaryOutput = defaultSummaryOutput
	}
	if c.Paths.SummaryOutput, err = expandPath(c.Paths.SummaryOutput); err != nil {
		return fmt.Errorf("paths.summary_output: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExistingTranscription) == "" {
		c.Paths.ExistingTranscription = c.Paths.TranscriptionOutput
	}
	if c.Paths.ExistingTranscription, err = expandPath(c.Paths.ExistingTranscription); err != nil {
		return fmt.Errorf("paths.existing_transcription: %w", err)
	}
	if c.Paths.SummaryDocx, err = expandPath(strings.TrimSpace(c.Paths.SummaryDocx)); err != nil {
		return fmt.Errorf("paths.summary_docx: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcquisition() {
	c.Acquisition.YtDlpBinary = defaultString(c.Acquisition.YtDlpBinary, defaultYtDlpBinary)
	c.Acquisition.FFmpegBinary = defaultString(c.Acquisition.FFmpegBinary, defaultFFmpegBinary)
	c.Acquisition.FFprobeBinary = defaultString(c.Acquisition.FFprobeBinary, defaultFFprobeBinary)
	c.Acquisition.AudioBaseName = defaultString(c.Acquisition.AudioBaseName, defaultAudioBaseName)
	c.Acquisition.FallbackBaseName = defaultString(c.Acquisition.FallbackBaseName, defaultFallbackBaseName)
}

func (c *Config) normalizeTranscription() error {
	c.Transcription.Engine = strings.ToLower(defaultString(c.Transcription.Engine, defaultTranscriptionEngine))
	c.Transcription.WhisperBinary = defaultString(c.Transcription.WhisperBinary, defaultWhisperBinary)
	c.Transcription.VADMethod = strings.ToLower(defaultString(c.Transcription.VADMethod, defaultVADMethod))

	c.Transcription.Model = strings.ToLower(strings.TrimSpace(c.Transcription.Model))
	if c.Transcription.Model == "" {
		c.Transcription.Model = strings.ToLower(envOr("VIDSUM_WHISPER_MODEL", defaultWhisperModel))
	}

	lang := strings.TrimSpace(c.Transcription.Language)
	if lang == "" {
		lang = envOr("VIDSUM_LANGUAGE", defaultLanguage)
	}
	normalized, err := language.Normalize(lang)
	if err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	c.Transcription.Language = normalized

	c.Transcription.HFToken = strings.TrimSpace(c.Transcription.HFToken)
	if c.Transcription.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcription.HFToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	c.Generation.BaseURL = strings.TrimSpace(c.Generation.BaseURL)
	if c.Generation.BaseURL == "" {
		c.Generation.BaseURL = envOr("OLLAMA_HOST", defaultOllamaURL)
	}
	if !strings.Contains(c.Generation.BaseURL, "://") {
		c.Generation.BaseURL = "http://" + c.Generation.BaseURL
	}
	c.Generation.BaseURL = strings.TrimRight(c.Generation.BaseURL, "/")

	c.Generation.Model = strings.TrimSpace(c.Generation.Model)
	if c.Generation.Model == "" {
		c.Generation.Model = envOr("VIDSUM_OLLAMA_MODEL", defaultOllamaModel)
	}
	if c.Generation.TimeoutSeconds <= 0 {
		c.Generation.TimeoutSeconds = defaultGenerationTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
