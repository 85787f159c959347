package services_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"vidsum/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunCommandFoldsOutputIntoError(t *testing.T) {
	script := writeScript(t, "echo 'ERROR: unsupported url' >&2\nexit 3")
	err := services.RunCommand(context.Background(), script)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported url") {
		t.Fatalf("expected output in error, got %v", err)
	}
}

func TestRunCommandMissingBinary(t *testing.T) {
	err := services.RunCommand(context.Background(), "vidsum-definitely-missing-binary")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Fatalf("expected exec.ErrNotFound, got %v", err)
	}
}

func TestStreamingRunnerCopiesOutput(t *testing.T) {
	script := writeScript(t, "echo '[00:00.000 --> 00:02.000] bonjour'")
	var buf bytes.Buffer
	if err := services.StreamingRunner(&buf)(context.Background(), script); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "bonjour") {
		t.Fatalf("expected streamed output, got %q", buf.String())
	}
}
