package services

import (
	"errors"
	"fmt"
	"strings"
)

// Classification markers. Wrap tags an error with one of these so callers can
// branch with errors.Is without parsing messages.
var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("transient failure")

	// ErrFatal marks failures that must terminate the process immediately.
	ErrFatal = errors.New("fatal failure")
	// ErrAborted marks failures that halt the pipeline before partial output.
	ErrAborted = errors.New("pipeline aborted")
)

// Wrap tags err with marker and prefixes it with "stage: operation: message".
// Empty parts are skipped; a nil marker falls back to ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinNonEmpty(": ", stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Severity describes how the command layer reacts to a pipeline error.
type Severity string

const (
	SeverityNone        Severity = "none"
	SeverityRecoverable Severity = "recoverable"
	SeverityAborting    Severity = "aborting"
	SeverityFatal       Severity = "fatal"
)

// SeverityOf maps a pipeline error to its severity.
func SeverityOf(err error) Severity {
	switch {
	case err == nil:
		return SeverityNone
	case errors.Is(err, ErrFatal):
		return SeverityFatal
	case errors.Is(err, ErrAborted):
		return SeverityAborting
	default:
		return SeverityRecoverable
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
