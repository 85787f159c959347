package config

const (
	defaultConfigPath               = "~/.config/vidsum/config.toml"
	projectConfigName               = "vidsum.toml"
	defaultWorkDir                  = "."
	defaultTranscriptionOutput      = "transcription.txt"
	defaultSummaryOutput            = "resume.txt"
	defaultYtDlpBinary              = "yt-dlp"
	defaultFFmpegBinary             = "ffmpeg"
	defaultFFprobeBinary            = "ffprobe"
	defaultAudioBaseName            = "audio"
	defaultFallbackBaseName         = "temp_audio"
	defaultTranscriptionEngine      = "whisper"
	defaultWhisperModel             = "turbo"
	defaultLanguage                 = "fr"
	defaultWhisperBinary            = "whisper"
	defaultVADMethod                = "silero"
	defaultOllamaURL                = "http://localhost:11434"
	defaultOllamaModel              = "qwen2.5:7b"
	defaultGenerationTimeoutSeconds = 3600
	defaultNtfyRequestTimeout       = 10
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
//
// Generation.BaseURL, Generation.Model, Transcription.Model and
// Transcription.Language are left empty so normalize can consult the
// environment before applying the built-in values.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:             defaultWorkDir,
			TranscriptionOutput: defaultTranscriptionOutput,
			SummaryOutput:       defaultSummaryOutput,
		},
		Acquisition: Acquisition{
			YtDlpBinary:      defaultYtDlpBinary,
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			AudioBaseName:    defaultAudioBaseName,
			FallbackBaseName: defaultFallbackBaseName,
		},
		Transcription: Transcription{
			Engine:        defaultTranscriptionEngine,
			WhisperBinary: defaultWhisperBinary,
			VADMethod:     defaultVADMethod,
		},
		Generation: Generation{
			TimeoutSeconds: defaultGenerationTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
