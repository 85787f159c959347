package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"vidsum/internal/config"
	"vidsum/internal/deps"
	"vidsum/internal/services/ollama"
	"vidsum/internal/services/whisperx"
	"vidsum/internal/transcription"
)

const modelCheckTimeout = 15 * time.Second

// ModelChecker reports whether the generation service offers a model.
type ModelChecker interface {
	CheckModel(ctx context.Context, model string) error
}

// CheckGenerationModel verifies that the service is reachable and the model is installed.
// It uses a single attempt with a short timeout.
func CheckGenerationModel(ctx context.Context, checker ModelChecker, model string) Result {
	name := "Ollama model"
	if model == "" {
		return Result{Name: name, Detail: "model not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	if err := checker.CheckModel(checkCtx, model); err != nil {
		return Result{Name: name, Detail: summarizeModelError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s available", model)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external commands needed by the configured
// acquisition and transcription settings. The summarize and doctor commands
// share this list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Acquisition.YtDlpBinary,
			Description: "Required for audio download",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Acquisition.FFmpegBinary,
			Description: "Required for audio extraction and normalization",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Acquisition.FFprobeBinary,
			Description: "Verifies the audio layout; canonical format is assumed when absent",
			Optional:    true,
			VersionArgs: []string{"-version"},
		},
	}
	if cfg.Transcription.Engine == transcription.EngineWhisperX {
		requirements = append(requirements, deps.Requirement{
			Name:        "uvx",
			Command:     whisperx.UVXCommand,
			Description: "Required for WhisperX-driven transcription",
			VersionArgs: []string{"--version"},
		})
	} else {
		requirements = append(requirements, deps.Requirement{
			Name:        "Whisper",
			Command:     cfg.Transcription.WhisperBinary,
			Description: "Required for transcription",
		})
	}
	return deps.CheckBinaries(ctx, requirements)
}

func summarizeModelError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || ollama.KindOf(err) == ollama.KindTimeout {
		return "model check timed out (service unresponsive)"
	}
	var oerr *ollama.Error
	if errors.As(err, &oerr) {
		detail := oerr.Error()
		if hint := oerr.Hint(); hint != "" {
			detail += "; " + hint
		}
		return detail
	}
	return err.Error()
}
