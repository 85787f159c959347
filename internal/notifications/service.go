package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vidsum/internal/config"
)

const userAgent = "vidsum/0.1"

// Event identifies a notification kind.
type Event string

const (
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventTest         Event = "test"
)

// Payload carries event fields. Recognized keys: source, summary, elapsed,
// summaryError, error.
type Payload map[string]string

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return fmt.Errorf("unsupported notification event %q", event)
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	get := func(key string) string { return strings.TrimSpace(payload[key]) }
	switch event {
	case EventRunCompleted:
		if reason := get("summaryError"); reason != "" {
			return message{
				title: "vidsum - Transcribed",
				body:  fmt.Sprintf("📝 Transcription saved for %s\nSummary not produced: %s", get("source"), reason),
				tags:  []string{"vidsum", "summary", "warning"},
			}, true
		}
		body := fmt.Sprintf("✅ Summary ready: %s", get("summary"))
		if source := get("source"); source != "" {
			body += "\nSource: " + source
		}
		if elapsed := get("elapsed"); elapsed != "" {
			body += "\nElapsed: " + elapsed
		}
		return message{
			title: "vidsum - Summary Ready",
			body:  body,
			tags:  []string{"vidsum", "summary", "completed"},
		}, true
	case EventRunFailed:
		reason := get("error")
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "vidsum - Failed",
			body:     fmt.Sprintf("❌ Run failed for %s: %s", get("source"), reason),
			tags:     []string{"vidsum", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "vidsum - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"vidsum", "test"},
			priority: "low",
		}, true
	}
	return message{}, false
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
