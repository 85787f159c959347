package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"vidsum/internal/acquisition"
	"vidsum/internal/config"
	"vidsum/internal/export"
	"vidsum/internal/fileutil"
	"vidsum/internal/logging"
	"vidsum/internal/services"
	"vidsum/internal/services/ollama"
	"vidsum/internal/summarization"
	"vidsum/internal/transcription"
)

// Acquirer fetches canonical audio for a URL.
type Acquirer interface {
	Acquire(ctx context.Context, sourceURL string) (acquisition.Artifact, error)
}

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, model transcription.Model, language string) (transcription.Result, error)
}

// Summarizer checks the generation service and produces summaries.
type Summarizer interface {
	CheckAvailability(ctx context.Context) error
	Summarize(ctx context.Context, text string) (summarization.Result, error)
}

// Settings are the per-run parameters taken from configuration.
type Settings struct {
	TranscriptionOutput   string
	SummaryOutput         string
	ExistingTranscription string
	SummaryDocx           string
	Model                 transcription.Model
	Language              string
}

// SettingsFromConfig extracts run settings from cfg.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	model, err := transcription.ParseModel(cfg.Transcription.Model)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		TranscriptionOutput:   cfg.Paths.TranscriptionOutput,
		SummaryOutput:         cfg.Paths.SummaryOutput,
		ExistingTranscription: cfg.Paths.ExistingTranscription,
		SummaryDocx:           cfg.Paths.SummaryDocx,
		Model:                 model,
		Language:              cfg.Transcription.Language,
	}, nil
}

// Report describes what a run did.
type Report struct {
	RunID             string
	SourceURL         string
	States            []State
	Final             State
	Reused            bool
	AudioPath         string
	TranscriptionPath string
	SummaryPath       string
	DocxPath          string
	// SummaryErr is set when summarization was attempted and failed.
	SummaryErr error
	Elapsed    time.Duration
}

func (r *Report) enter(s State) {
	r.States = append(r.States, s)
	r.Final = s
}

// SummaryWritten reports whether a summary file was produced.
func (r Report) SummaryWritten() bool { return r.SummaryPath != "" }

// Orchestrator runs the pipeline for one URL at a time.
type Orchestrator struct {
	settings    Settings
	acquirer    Acquirer
	transcriber Transcriber
	summarizer  Summarizer
	logger      *slog.Logger
	now         func() time.Time
	newRunID    func() string
}

// New creates an Orchestrator.
func New(settings Settings, acquirer Acquirer, transcriber Transcriber, summarizer Summarizer, logger *slog.Logger) (*Orchestrator, error) {
	if acquirer == nil || transcriber == nil || summarizer == nil {
		return nil, errors.New("pipeline requires acquirer, transcriber, and summarizer")
	}
	if settings.TranscriptionOutput == "" || settings.SummaryOutput == "" {
		return nil, errors.New("pipeline requires transcription and summary output paths")
	}
	return &Orchestrator{
		settings:    settings,
		acquirer:    acquirer,
		transcriber: transcriber,
		summarizer:  summarizer,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
		now:         time.Now,
		newRunID:    uuid.NewString,
	}, nil
}

// Run processes sourceURL. The returned error wraps services.ErrAborted when
// the run halted before producing output and services.ErrFatal when
// transcription failed. A failed summarization is not an error: the run ends
// in StateDone and Report.SummaryErr carries the cause.
func (o *Orchestrator) Run(ctx context.Context, sourceURL string) (Report, error) {
	start := o.now()
	report, err := o.run(ctx, Report{RunID: o.newRunID(), SourceURL: sourceURL})
	report.Elapsed = o.now().Sub(start)
	return report, err
}

func (o *Orchestrator) run(ctx context.Context, report Report) (Report, error) {
	ctx = services.WithRequestID(ctx, report.RunID)
	ctx = services.WithSourceURL(ctx, report.SourceURL)

	// PreflightCheck
	report.enter(StatePreflightCheck)
	stageCtx := services.WithStage(ctx, string(StatePreflightCheck))
	logger := logging.WithContext(stageCtx, o.logger)
	if err := o.summarizer.CheckAvailability(stageCtx); err != nil {
		logging.ErrorWithContext(logger, "generation model unavailable", "preflight_failed",
			logging.Error(err),
			logging.String("failure_kind", string(ollama.KindOf(err))),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		report.enter(StateAborted)
		return report, services.Wrap(services.ErrAborted, string(StatePreflightCheck), "check model", "generation model unavailable", err)
	}

	if fileutil.Exists(o.settings.ExistingTranscription) {
		return o.reuse(ctx, report)
	}

	// Acquiring
	report.enter(StateAcquiring)
	stageCtx = services.WithStage(ctx, string(StateAcquiring))
	logger = logging.WithContext(stageCtx, o.logger)
	artifact, err := o.acquirer.Acquire(stageCtx, report.SourceURL)
	if err != nil {
		logging.ErrorWithContext(logger, "audio acquisition failed", "acquisition_failed",
			logging.Error(err),
			logging.String("failure_kind", string(acquisition.KindOf(err))),
			logging.String(logging.FieldErrorHint, "check the URL and that yt-dlp and ffmpeg are installed"),
		)
		report.enter(StateAborted)
		return report, services.Wrap(services.ErrAborted, string(StateAcquiring), "acquire", "audio acquisition failed", err)
	}
	report.AudioPath = artifact.Path

	// Transcribing
	report.enter(StateTranscribing)
	stageCtx = services.WithStage(ctx, string(StateTranscribing))
	logger = logging.WithContext(stageCtx, o.logger)
	result, err := o.transcriber.Transcribe(stageCtx, artifact.Path, o.settings.Model, o.settings.Language)
	if err == nil {
		err = o.persist(o.settings.TranscriptionOutput, result.Text)
		if err != nil {
			err = services.Wrap(services.ErrFatal, string(StateTranscribing), "persist", "write transcription", err)
		}
	}
	if err != nil {
		o.removeAudio(logger, artifact.Path)
		logging.ErrorWithContext(logger, "transcription failed", "transcription_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the whisper installation and available memory"),
		)
		if !errors.Is(err, services.ErrFatal) {
			err = services.Wrap(services.ErrFatal, string(StateTranscribing), "transcribe", "transcription failed", err)
		}
		return report, err
	}
	report.TranscriptionPath = o.settings.TranscriptionOutput
	logger.Info("transcription saved", logging.String("path", report.TranscriptionPath))

	o.summarize(ctx, &report, result.Text)
	o.removeAudio(logger, artifact.Path)
	return o.finish(ctx, report)
}

func (o *Orchestrator) reuse(ctx context.Context, report Report) (Report, error) {
	path := o.settings.ExistingTranscription
	logger := logging.WithContext(ctx, o.logger)
	data, err := os.ReadFile(path)
	if err != nil {
		logging.ErrorWithContext(logger, "existing transcription unreadable", "reuse_failed",
			logging.Error(err),
			logging.String("path", path),
		)
		report.enter(StateAborted)
		return report, services.Wrap(services.ErrAborted, string(StatePreflightCheck), "reuse", "read existing transcription", err)
	}
	report.Reused = true
	report.TranscriptionPath = path
	logger.Info("reusing existing transcription; skipping download and transcription",
		logging.String("path", path),
		logging.Int64("transcription_bytes", int64(len(data))),
	)
	o.summarize(ctx, &report, string(data))
	return o.finish(ctx, report)
}

// summarize attempts the summary and records, but never propagates, its failure.
func (o *Orchestrator) summarize(ctx context.Context, report *Report, text string) {
	report.enter(StateSummarizing)
	stageCtx := services.WithStage(ctx, string(StateSummarizing))
	logger := logging.WithContext(stageCtx, o.logger)

	result, err := o.summarizer.Summarize(stageCtx, text)
	if err == nil {
		err = o.persist(o.settings.SummaryOutput, result.Text)
	}
	if err != nil {
		report.SummaryErr = err
		logging.WarnWithContext(logger, "summary not produced", "summary_failed",
			logging.Error(err),
			logging.String("failure_kind", string(ollama.KindOf(err))),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "transcription kept; no summary file written"),
		)
		return
	}
	report.SummaryPath = o.settings.SummaryOutput
	logger.Info("summary saved", logging.String("path", report.SummaryPath))

	if o.settings.SummaryDocx == "" {
		return
	}
	doc := export.Document{
		Title:       export.TitleFromMarkdown(result.Text),
		SourceURL:   report.SourceURL,
		Model:       result.Model,
		GeneratedAt: o.now(),
		Markdown:    result.Text,
	}
	if err := export.WriteDocx(o.settings.SummaryDocx, doc); err != nil {
		logging.WarnWithContext(logger, "docx export failed", "docx_export_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "markdown summary is still available"),
		)
		return
	}
	report.DocxPath = o.settings.SummaryDocx
	logger.Info("summary exported", logging.String("path", report.DocxPath))
}

func (o *Orchestrator) finish(ctx context.Context, report Report) (Report, error) {
	if err := ctx.Err(); err != nil {
		report.enter(StateAborted)
		return report, services.Wrap(services.ErrAborted, string(StateSummarizing), "run", "interrupted", err)
	}
	report.enter(StateDone)
	return report, nil
}

func (o *Orchestrator) persist(path, text string) error {
	if err := fileutil.WriteTextFile(path, text); err != nil {
		return fmt.Errorf("persist %s: %w", path, err)
	}
	return nil
}

func (o *Orchestrator) removeAudio(logger *slog.Logger, path string) {
	if err := fileutil.RemoveIfExists(path); err != nil {
		logging.WarnWithContext(logger, "audio cleanup failed", "cleanup_failed",
			logging.Error(err),
			logging.String("path", path),
			logging.String(logging.FieldImpact, "temporary audio left on disk"),
		)
		return
	}
	logger.Debug("audio removed", logging.String("path", path))
}

func hintFor(err error) string {
	if hint := ollama.HintOf(err); hint != "" {
		return hint
	}
	return "check logs for details"
}
