package summarization

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vidsum/internal/config"
	"vidsum/internal/logging"
	"vidsum/internal/services/ollama"
)

// Result is a generated summary.
type Result struct {
	Text     string
	Model    string
	Duration time.Duration
}

// Client is the subset of the Ollama client used here.
type Client interface {
	CheckModel(ctx context.Context, model string) error
	Generate(ctx context.Context, req ollama.GenerateRequest) (ollama.GenerateResponse, error)
}

// Summarizer generates summaries with one configured model.
type Summarizer struct {
	client Client
	model  string
	logger *slog.Logger
	// onWait, when set, is called before the generate request and the
	// returned func after it completes.
	onWait func(model string) func()
}

// Option customizes a Summarizer.
type Option func(*Summarizer)

// WithClient replaces the Ollama client.
func WithClient(c Client) Option {
	return func(s *Summarizer) {
		if c != nil {
			s.client = c
		}
	}
}

// WithWaitIndicator brackets the generate request, typically with a spinner.
func WithWaitIndicator(fn func(model string) func()) Option {
	return func(s *Summarizer) { s.onWait = fn }
}

// New builds a Summarizer from the [generation] section.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Summarizer {
	var gen config.Generation
	if cfg != nil {
		gen = cfg.Generation
	}
	s := &Summarizer{
		client: ollama.NewClient(ollama.Config{BaseURL: gen.BaseURL, TimeoutSeconds: gen.TimeoutSeconds}),
		model:  strings.TrimSpace(gen.Model),
		logger: logging.NewComponentLogger(logger, "summarization"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the configured generation model.
func (s *Summarizer) Model() string { return s.model }

// CheckAvailability confirms the service answers and the model is installed.
func (s *Summarizer) CheckAvailability(ctx context.Context) error {
	return s.client.CheckModel(ctx, s.model)
}

// Summarize checks availability again and generates a summary of text.
// Failures carry an *ollama.Error describing the cause.
func (s *Summarizer) Summarize(ctx context.Context, text string) (Result, error) {
	logger := logging.WithContext(ctx, s.logger)
	if err := s.CheckAvailability(ctx); err != nil {
		return Result{}, err
	}

	options := DefaultOptions()
	req := ollama.GenerateRequest{
		Model:   s.model,
		Prompt:  BuildPrompt(text),
		Stream:  false,
		Options: &options,
	}
	logger.Info("generating summary",
		logging.String("model", s.model),
		logging.Int("transcript_chars", len([]rune(text))),
	)

	start := time.Now()
	var done func()
	if s.onWait != nil {
		done = s.onWait(s.model)
	}
	resp, err := s.client.Generate(ctx, req)
	if done != nil {
		done()
	}
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Text:     strings.TrimSpace(resp.Response),
		Model:    s.model,
		Duration: time.Since(start),
	}
	logger.Info("summary generated",
		logging.Duration("elapsed", result.Duration),
		logging.Int("summary_chars", len([]rune(result.Text))),
		logging.Int("eval_count", resp.EvalCount),
	)
	return result, nil
}
