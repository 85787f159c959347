package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the address of a local Ollama server.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultGenerateTimeout bounds a single generate request.
	DefaultGenerateTimeout = 3600 * time.Second

	defaultTagsTimeout = 15 * time.Second
	maxResponseBytes   = 32 << 20
)

// Config captures the runtime settings required to talk to Ollama.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the Ollama HTTP API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tagsClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.tagsClient = client
		}
	}
}

// NewClient constructs an Ollama client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := DefaultGenerateTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		tagsClient: &http.Client{Timeout: defaultTagsTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the generate request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// ModelInfo describes an installed model as reported by /api/tags.
type ModelInfo struct {
	Name       string       `json:"name"`
	Size       int64        `json:"size"`
	ModifiedAt time.Time    `json:"modified_at"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails holds the optional details block of a model entry.
type ModelDetails struct {
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ListModels returns the models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	const op = "list models"
	body, err := c.do(ctx, c.tagsClient, op, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return nil, err
	}
	var parsed tagsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, c.newError(KindMalformedResponse, op, fmt.Errorf("decode response: %w", err))
	}
	return parsed.Models, nil
}

// ModelNames extracts the names of models.
func ModelNames(models []ModelInfo) []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	return names
}

// CheckModel verifies that model is installed. Names are matched exactly, so
// "qwen2.5:7b" and "qwen2.5:latest" are distinct.
func (c *Client) CheckModel(ctx context.Context, model string) error {
	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}
	names := ModelNames(models)
	if slices.Contains(names, model) {
		return nil
	}
	slices.Sort(names)
	e := c.newError(KindModelUnavailable, "check model", nil)
	e.Model = model
	e.Available = names
	return e
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions are the sampling and runtime parameters sent with a request.
type GenerateOptions struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict"`
	NumCtx        int     `json:"num_ctx"`
	NumThread     int     `json:"num_thread"`
	NumGPU        int     `json:"num_gpu"`
	Mirostat      int     `json:"mirostat"`
	MirostatTau   float64 `json:"mirostat_tau"`
	MirostatEta   float64 `json:"mirostat_eta"`
	TFSZ          float64 `json:"tfs_z"`
	TypicalP      float64 `json:"typical_p"`
}

// GenerateResponse is the subset of the generate reply the pipeline reads.
type GenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	TotalDuration   int64  `json:"total_duration"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type generateReply struct {
	GenerateResponse
	Response *string `json:"response"`
	Error    string  `json:"error"`
}

// Generate issues one non-streaming generate request. A reply without a
// non-empty "response" field is malformed.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	const op = "generate"
	if strings.TrimSpace(req.Model) == "" {
		return GenerateResponse{}, errors.New("ollama generate: model required")
	}
	req.Stream = false
	encoded, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("ollama generate: encode body: %w", err)
	}
	body, err := c.do(ctx, c.httpClient, op, http.MethodPost, "/api/generate", encoded)
	if err != nil {
		return GenerateResponse{}, err
	}

	var reply generateReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return GenerateResponse{}, c.newError(KindMalformedResponse, op, fmt.Errorf("decode response: %w (payload snippet: %s)", err, summarizePayloadSnippet(string(body))))
	}
	if reply.Error != "" {
		return GenerateResponse{}, c.newError(KindMalformedResponse, op, fmt.Errorf("server error: %s", reply.Error))
	}
	if reply.Response == nil || strings.TrimSpace(*reply.Response) == "" {
		return GenerateResponse{}, c.newError(KindMalformedResponse, op, errors.New("missing response field"))
	}
	out := reply.GenerateResponse
	out.Response = *reply.Response
	return out, nil
}

func (c *Client) do(ctx context.Context, client *http.Client, op, method, path string, payload []byte) ([]byte, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, c.newError(KindServiceUnreachable, op, fmt.Errorf("build url: %w", err))
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, c.newError(KindServiceUnreachable, op, fmt.Errorf("new request: %w", err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, c.newError(transportKind(err), op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.newError(transportKind(err), op, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		e := c.newError(KindHTTPError, op, nil)
		e.StatusCode = resp.StatusCode
		e.Body = strings.TrimSpace(string(body))
		return nil, e
	}
	return body, nil
}

func (c *Client) newError(kind FailureKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, BaseURL: c.baseURL, Err: err}
}
