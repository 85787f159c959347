package ollama

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// FailureKind classifies Ollama failures for diagnostics.
type FailureKind string

const (
	KindServiceUnreachable FailureKind = "service_unreachable"
	KindHTTPError          FailureKind = "http_error"
	KindTimeout            FailureKind = "timeout"
	KindMalformedResponse  FailureKind = "malformed_response"
	KindModelUnavailable   FailureKind = "model_unavailable"
)

// Error reports a failed Ollama call.
type Error struct {
	Kind       FailureKind
	Op         string
	BaseURL    string
	StatusCode int
	Body       string
	Model      string
	Available  []string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ollama ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	switch e.Kind {
	case KindHTTPError:
		fmt.Fprintf(&b, "http %d: %s", e.StatusCode, summarizePayloadSnippet(e.Body))
	case KindModelUnavailable:
		fmt.Fprintf(&b, "model %q not installed", e.Model)
		if len(e.Available) > 0 {
			fmt.Fprintf(&b, " (available: %s)", strings.Join(e.Available, ", "))
		}
	default:
		b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Hint suggests the operator action for the failure.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindServiceUnreachable:
		return "start the service with `ollama serve`"
	case KindModelUnavailable:
		return fmt.Sprintf("install it with `ollama pull %s`", e.Model)
	case KindTimeout:
		return "raise generation.timeout_seconds or choose a smaller model"
	case KindHTTPError:
		return "check the Ollama server logs"
	case KindMalformedResponse:
		return "verify generation.base_url points at an Ollama server"
	}
	return ""
}

// KindOf returns the failure kind carried by err, or "" when err is not an Ollama error.
func KindOf(err error) FailureKind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}

// HintOf returns the operator hint for err, if any.
func HintOf(err error) string {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Hint()
	}
	return ""
}

// transportKind separates timeouts from connection failures.
func transportKind(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindServiceUnreachable
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
