package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vidsum/internal/services"
)

// Service runs whisperx through uvx. It is the alternative engine to the
// plain whisper CLI and produces the same plain-text result.
type Service struct {
	cfg           Config
	commandRunner services.CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner.
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.commandRunner = runner
}

// Model returns the WhisperX checkpoint name for logging.
func (s *Service) Model() string {
	return ModelName(s.cfg.Model)
}

const torchLoadEnv = "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// pyannote checkpoints fail to load under torch's weights_only default.
	if _, set := os.LookupEnv(torchLoadEnv); !set {
		cmd.Env = append(os.Environ(), torchLoadEnv+"=1")
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// TranscribeFile transcribes a WAV file and returns the joined segment text.
// language must already be an ISO 639-1 code.
func (s *Service) TranscribeFile(ctx context.Context, source, language string) (string, error) {
	if source == "" {
		return "", errors.New("whisperx: source path required")
	}
	outputDir, err := os.MkdirTemp("", "vidsum-whisperx-")
	if err != nil {
		return "", fmt.Errorf("whisperx: create scratch dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	if err := s.run(ctx, UVXCommand, s.BuildArgs(source, outputDir, language)...); err != nil {
		return "", fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	text, err := loadTranscriptText(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return "", fmt.Errorf("whisperx: %w", err)
	}
	return text, nil
}

// BuildArgs returns the uvx arguments that run whisperx on source.
func (s *Service) BuildArgs(source, outputDir, language string) []string {
	var args []string
	if s.cfg.CUDAEnabled {
		args = append(args, "--index-url", torchIndex, "--extra-index-url", pypiIndex)
	} else {
		args = append(args, "--index-url", pypiIndex)
	}
	args = append(args,
		"whisperx", source,
		"--model", ModelName(s.cfg.Model),
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", "sentence",
	)

	tuning := DefaultTuning()
	if s.cfg.Tuning != nil {
		tuning = *s.cfg.Tuning
	}
	for _, flag := range tuning.flags() {
		if flag[1] != "" {
			args = append(args, flag[0], flag[1])
		}
	}

	vad := s.cfg.VADMethod
	if vad == "" {
		vad = vadSilero
	}
	args = append(args, "--vad_method", vad)
	if vad == vadPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if s.cfg.CUDAEnabled {
		return append(args, "--device", "cuda")
	}
	return append(args, "--device", "cpu", "--compute_type", "float32")
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

func loadTranscriptText(jsonPath string) (string, error) {
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
