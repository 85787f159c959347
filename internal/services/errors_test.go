package services_test

import (
	"errors"
	"strings"
	"testing"

	"vidsum/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrNotFound, "acquiring", "yt-dlp", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"acquiring", "yt-dlp", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Severity
	}{
		{"nil", nil, services.SeverityNone},
		{"fatal", services.Wrap(services.ErrFatal, "transcribing", "whisper", "crashed", errors.New("exit 1")), services.SeverityFatal},
		{"aborted", services.Wrap(services.ErrAborted, "preflight", "", "model missing", nil), services.SeverityAborting},
		{"other", errors.New("boom"), services.SeverityRecoverable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.SeverityOf(tt.err); got != tt.want {
				t.Fatalf("SeverityOf = %s, want %s", got, tt.want)
			}
		})
	}
}
