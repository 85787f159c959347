package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidsum/internal/acquisition"
	"vidsum/internal/config"
	"vidsum/internal/deps"
	"vidsum/internal/fileutil"
	"vidsum/internal/logging"
	"vidsum/internal/notifications"
	"vidsum/internal/pipeline"
	"vidsum/internal/preflight"
	"vidsum/internal/progress"
	"vidsum/internal/summarization"
	"vidsum/internal/transcription"
	"vidsum/internal/worklock"
)

const notifyTimeout = 15 * time.Second

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Download, transcribe, and summarize a video",
		Long: `Download the audio track of a video, transcribe it with Whisper, and
summarize the transcription with a local Ollama model.

When the file named by --transcription already exists, download and
transcription are skipped and the existing text is summarized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ApplyOverrides(overrides); err != nil {
				return fmt.Errorf("apply flags: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			return runSummarize(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ctx, cfg, strings.TrimSpace(args[0]))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&overrides.WhisperModel, "whisper-model", "", "Whisper model tier: medium, large, turbo (default turbo)")
	flags.StringVar(&overrides.Language, "language", "", "Transcription language as an ISO 639-1 code (default fr)")
	flags.StringVar(&overrides.TranscriptionOutput, "output", "", "Transcription output file (default transcription.txt)")
	flags.StringVar(&overrides.SummaryOutput, "summary", "", "Summary output file (default resume.txt)")
	flags.StringVar(&overrides.OllamaModel, "ollama-model", "", "Ollama model used for the summary (default qwen2.5:7b)")
	flags.StringVar(&overrides.OllamaURL, "ollama-url", "", "Ollama server URL (default http://localhost:11434)")
	flags.StringVar(&overrides.ExistingTranscription, "transcription", "", "Existing transcription to summarize instead of downloading")
	flags.StringVar(&overrides.SummaryDocx, "docx", "", "Also export the summary as a Word document at this path")
	flags.StringVar(&overrides.WorkDir, "work-dir", "", "Directory for temporary audio files")
	return cmd
}

func runSummarize(ctx context.Context, stdout, stderr io.Writer, cmdCtx *commandContext, cfg *config.Config, sourceURL string) error {
	if sourceURL == "" {
		return errors.New("a video URL is required")
	}
	logger, err := cmdCtx.logger(cfg, stderr)
	if err != nil {
		return err
	}

	lock, err := worklock.Acquire(cfg.Paths.WorkDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release work dir lock", logging.Error(err))
		}
	}()

	if !fileutil.Exists(cfg.Paths.ExistingTranscription) {
		warnMissingDeps(ctx, logger, cfg)
	}

	orch, download, err := buildOrchestrator(cfg, logger, stderr)
	if err != nil {
		return err
	}
	defer download.Finish()

	report, err := orch.Run(ctx, sourceURL)
	renderReport(stdout, report)
	notifyOutcome(ctx, logger, notifications.NewService(cfg), report, err)
	return err
}

func notifyOutcome(ctx context.Context, logger *slog.Logger, notifier notifications.Service, report pipeline.Report, runErr error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	event := notifications.EventRunCompleted
	payload := notifications.Payload{
		"source":  report.SourceURL,
		"summary": report.SummaryPath,
		"elapsed": report.Elapsed.Round(time.Second).String(),
	}
	if runErr != nil {
		event = notifications.EventRunFailed
		payload["error"] = runErr.Error()
	} else if report.SummaryErr != nil {
		payload["summaryError"] = report.SummaryErr.Error()
	}
	if err := notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logger, "notification not delivered", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run outcome only available locally"),
		)
	}
}

func buildOrchestrator(cfg *config.Config, logger *slog.Logger, stderr io.Writer) (*pipeline.Orchestrator, *progress.Download, error) {
	settings, err := pipeline.SettingsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	interactive := progress.IsTerminal(stderr)
	download := progress.NewDownload(stderr, interactive)

	acq := &finishingAcquirer{
		inner:    acquisition.New(cfg, logger, acquisition.WithProgress(download.Update)),
		download: download,
	}
	var trOpts []transcription.Option
	if interactive {
		trOpts = append(trOpts, transcription.WithProgress(stderr))
	}
	tr := transcription.New(cfg, logger, trOpts...)
	sum := summarization.New(cfg, logger, summarization.WithWaitIndicator(progress.WaitIndicator(stderr, interactive)))

	orch, err := pipeline.New(settings, acq, tr, sum, logger)
	if err != nil {
		return nil, nil, err
	}
	return orch, download, nil
}

// finishingAcquirer clears the download bar as soon as acquisition returns.
type finishingAcquirer struct {
	inner    pipeline.Acquirer
	download *progress.Download
}

func (f *finishingAcquirer) Acquire(ctx context.Context, sourceURL string) (acquisition.Artifact, error) {
	artifact, err := f.inner.Acquire(ctx, sourceURL)
	f.download.Finish()
	return artifact, err
}

func warnMissingDeps(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, status := range deps.Missing(preflight.CheckSystemDeps(ctx, cfg)) {
		logging.WarnWithContext(logger, "external dependency missing", "dependency_missing",
			logging.String("dependency", status.Name),
			logging.String("command", status.Command),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldImpact, status.Description),
			logging.String(logging.FieldErrorHint, "install it or set its path in the config file"),
		)
	}
}

func renderReport(w io.Writer, report pipeline.Report) {
	if len(report.States) == 0 {
		return
	}
	status := report.Final.String()
	if !report.Final.Terminal() {
		status += " (stopped before completion)"
	}
	fmt.Fprintf(w, "Run %s: %s\n", report.RunID, status)
	if report.Reused {
		fmt.Fprintf(w, "  Reused transcription: %s\n", report.TranscriptionPath)
	} else if report.TranscriptionPath != "" {
		fmt.Fprintf(w, "  Transcription: %s\n", report.TranscriptionPath)
	}
	switch {
	case report.SummaryWritten():
		fmt.Fprintf(w, "  Summary: %s\n", report.SummaryPath)
	case report.SummaryErr != nil:
		fmt.Fprintf(w, "  Summary: not produced (%v)\n", report.SummaryErr)
	}
	if report.DocxPath != "" {
		fmt.Fprintf(w, "  Document: %s\n", report.DocxPath)
	}
	if report.Elapsed > 0 {
		fmt.Fprintf(w, "  Elapsed: %s\n", report.Elapsed.Round(time.Second))
	}
}
