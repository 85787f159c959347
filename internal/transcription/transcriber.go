package transcription

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/language"
	"vidsum/internal/logging"
	"vidsum/internal/services"
	"vidsum/internal/services/whisper"
	"vidsum/internal/services/whisperx"
)

// ErrFatal tags every transcription failure.
var ErrFatal = services.ErrFatal

// Model is a transcription model tier.
type Model = whisper.Model

// ParseModel validates a tier name; empty selects the default tier.
func ParseModel(value string) (Model, error) {
	return whisper.ParseModel(value)
}

// Engine names accepted by transcription.engine.
const (
	EngineWhisper  = "whisper"
	EngineWhisperX = "whisperx"
)

// Result is the outcome of a transcription run.
type Result struct {
	Text     string
	Language string
	Model    Model
	Duration time.Duration
}

// Engine transcribes one audio file with a fixed model.
type Engine interface {
	TranscribeFile(ctx context.Context, source, language string) (string, error)
}

// EngineFactory builds an Engine for a model tier.
type EngineFactory func(model Model) Engine

// Transcriber runs speech-to-text for the pipeline.
type Transcriber struct {
	engineName string
	cfg        config.Transcription
	factory    EngineFactory
	logger     *slog.Logger
}

// Option customizes a Transcriber.
type Option func(*Transcriber)

// WithEngineFactory overrides engine construction.
func WithEngineFactory(factory EngineFactory) Option {
	return func(t *Transcriber) {
		if factory != nil {
			t.factory = factory
		}
	}
}

// WithProgress streams engine output to w while it runs.
func WithProgress(w io.Writer) Option {
	return func(t *Transcriber) {
		t.factory = defaultFactory(t.cfg, services.StreamingRunner(w))
	}
}

// New creates a Transcriber from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Transcriber {
	t := &Transcriber{
		logger: logging.NewComponentLogger(logger, "transcription"),
	}
	if cfg != nil {
		t.engineName = cfg.Transcription.Engine
		t.cfg = cfg.Transcription
	}
	if t.engineName == "" {
		t.engineName = EngineWhisper
	}
	t.factory = defaultFactory(t.cfg, nil)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func defaultFactory(cfg config.Transcription, runner services.CommandRunner) EngineFactory {
	return func(model Model) Engine {
		if cfg.Engine == EngineWhisperX {
			svc := whisperx.NewService(whisperx.Config{
				Model:       model,
				CUDAEnabled: cfg.CUDAEnabled,
				VADMethod:   cfg.VADMethod,
				HFToken:     cfg.HFToken,
			})
			if runner != nil {
				svc.WithCommandRunner(runner)
			}
			return svc
		}
		svc := whisper.NewService(whisper.Config{Binary: cfg.WhisperBinary, Model: model})
		if runner != nil {
			svc.WithCommandRunner(runner)
		}
		return svc
	}
}

// Transcribe runs the configured engine against audioPath. The language is
// normalized to ISO 639-1 and always passed to the engine.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, model Model, lang string) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, fatal("validate", "audio path required", nil)
	}
	if model == "" {
		model = whisper.DefaultModel
	}
	iso, err := language.Normalize(lang)
	if err != nil {
		return Result{}, fatal("validate", "invalid language", err)
	}

	logger := logging.WithContext(ctx, t.logger)
	logger.Info("transcription started",
		logging.String("engine", t.engineName),
		logging.String("model", model.String()),
		logging.String("language", language.DisplayName(iso)),
		logging.String("audio_path", audioPath),
	)

	start := time.Now()
	text, err := t.factory(model).TranscribeFile(ctx, audioPath, iso)
	if err != nil {
		return Result{}, fatal("transcribe", fmt.Sprintf("%s model %s failed", t.engineName, model), err)
	}
	result := Result{
		Text:     strings.TrimSpace(text),
		Language: iso,
		Model:    model,
		Duration: time.Since(start),
	}
	logger.Info("transcription completed",
		logging.Duration("elapsed", result.Duration),
		logging.Int("text_chars", len([]rune(result.Text))),
	)
	return result, nil
}

func fatal(op, msg string, err error) error {
	return services.Wrap(ErrFatal, "transcription", op, msg, err)
}
