package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidsum/internal/services"
)

// DefaultBinary is the executable name of the openai-whisper CLI.
const DefaultBinary = "whisper"

// Config captures runtime settings for the whisper CLI.
type Config struct {
	Binary string
	Model  Model
}

// Service runs whisper transcriptions.
type Service struct {
	cfg           Config
	commandRunner services.CommandRunner
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg, commandRunner: services.RunCommand}
}

// WithCommandRunner replaces the process runner, typically to stream output or in tests.
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	if runner != nil {
		s.commandRunner = runner
	}
}

// Model returns the configured model tier.
func (s *Service) Model() Model { return s.cfg.Model }

// Binary returns the executable invoked for transcriptions.
func (s *Service) Binary() string { return s.cfg.Binary }

// BuildArgs returns the CLI arguments for transcribing source into outputDir.
func (s *Service) BuildArgs(source, outputDir, language string) []string {
	args := []string{
		source,
		"--model", string(s.cfg.Model),
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	return append(args,
		"--verbose", "True",
		"--output_format", "txt",
		"--output_dir", outputDir,
	)
}

// TranscribeFile runs whisper on source and returns the trimmed transcript.
// language must already be an ISO 639-1 code. The scratch directory is removed
// before returning.
func (s *Service) TranscribeFile(ctx context.Context, source, language string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", errors.New("whisper: source path required")
	}
	outputDir, err := os.MkdirTemp("", "vidsum-whisper-")
	if err != nil {
		return "", fmt.Errorf("whisper: create scratch dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	if err := s.commandRunner(ctx, s.cfg.Binary, s.BuildArgs(source, outputDir, language)...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	data, err := os.ReadFile(filepath.Join(outputDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("whisper: read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
