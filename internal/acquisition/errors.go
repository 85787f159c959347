package acquisition

import (
	"errors"
	"fmt"
)

// FailureKind classifies acquisition failures for diagnostics.
type FailureKind string

const (
	// KindExtractionUnavailable means the extraction tool could not be started.
	KindExtractionUnavailable FailureKind = "extraction_unavailable"
	// KindExtractionFailed means the extraction tool exited unsuccessfully.
	KindExtractionFailed FailureKind = "extraction_failed"
	// KindNoOutputFound means the tool succeeded but no candidate file exists.
	KindNoOutputFound FailureKind = "no_output_found"
	// KindNormalizationFailed means local conversion to canonical WAV failed.
	KindNormalizationFailed FailureKind = "normalization_failed"
)

// Strategy names an extraction strategy.
type Strategy string

const (
	StrategyPrimary  Strategy = "primary"
	StrategyFallback Strategy = "fallback"
)

// Error reports a failed acquisition step.
type Error struct {
	Kind     FailureKind
	Strategy Strategy
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("acquisition %s: %s", e.Strategy, e.Kind)
	}
	return fmt.Sprintf("acquisition %s: %s: %v", e.Strategy, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" when err is not an acquisition error.
func KindOf(err error) FailureKind {
	var acqErr *Error
	if errors.As(err, &acqErr) {
		return acqErr.Kind
	}
	return ""
}

// classifyExtraction maps a runner error onto unavailable or failed.
func classifyExtraction(strategy Strategy, err error) *Error {
	kind := KindExtractionFailed
	if IsToolMissing(err) {
		kind = KindExtractionUnavailable
	}
	return &Error{Kind: kind, Strategy: strategy, Err: err}
}
