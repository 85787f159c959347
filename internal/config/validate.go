package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"vidsum/internal/services/whisper"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.TranscriptionOutput == "" {
		return errors.New("paths.transcription_output must be set")
	}
	if c.Paths.SummaryOutput == "" {
		return errors.New("paths.summary_output must be set")
	}
	if c.Paths.TranscriptionOutput == c.Paths.SummaryOutput {
		return errors.New("paths.summary_output must differ from paths.transcription_output")
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	if strings.ContainsAny(c.Acquisition.AudioBaseName, `/\`) {
		return errors.New("acquisition.audio_basename must be a bare file name")
	}
	if strings.ContainsAny(c.Acquisition.FallbackBaseName, `/\`) {
		return errors.New("acquisition.fallback_basename must be a bare file name")
	}
	if c.Acquisition.AudioBaseName == c.Acquisition.FallbackBaseName {
		return errors.New("acquisition.fallback_basename must differ from acquisition.audio_basename")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case "whisper", "whisperx":
	default:
		return fmt.Errorf("transcription.engine must be whisper or whisperx (got %q)", c.Transcription.Engine)
	}
	if _, err := whisper.ParseModel(c.Transcription.Model); err != nil {
		return fmt.Errorf("transcription.model: %w", err)
	}
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote (got %q)", c.Transcription.VADMethod)
	}
	return nil
}

func (c *Config) validateGeneration() error {
	parsed, err := url.Parse(c.Generation.BaseURL)
	if err != nil {
		return fmt.Errorf("generation.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("generation.base_url must use http or https (got %q)", c.Generation.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("generation.base_url must include a host (got %q)", c.Generation.BaseURL)
	}
	if c.Generation.Model == "" {
		return errors.New("generation.model must be set")
	}
	if c.Generation.TimeoutSeconds <= 0 {
		return errors.New("generation.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be an http(s) URL (got %q)", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
