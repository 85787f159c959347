// Package ollama is a small client for a local Ollama server.
//
// It covers the two endpoints the summarizer needs: GET /api/tags to list
// installed models and POST /api/generate for a single non-streaming
// completion. Requests are never retried. Failures are returned as *Error
// values whose FailureKind separates an unreachable service, HTTP status
// errors, timeouts, malformed responses and missing models so callers can
// print a precise diagnostic.
package ollama
