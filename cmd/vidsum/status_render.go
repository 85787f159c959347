package main

import (
	"fmt"
	"strings"

	"vidsum/internal/preflight"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const statusLabelWidth = 16

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	base := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", statusKindLabel(kind))
	if message != "" {
		base += " " + message
	}
	if colorize {
		return statusKindColor(kind) + base + ansiReset
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	default:
		return ansiRed
	}
}

// kindForResult maps a check to a display kind. Optional dependencies that
// are absent pass with a warning.
func kindForResult(r preflight.Result) statusKind {
	switch {
	case !r.Passed:
		return statusError
	case strings.HasPrefix(r.Detail, "optional:"):
		return statusWarn
	default:
		return statusOK
	}
}
