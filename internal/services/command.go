package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command and blocks until it exits.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// RunCommand executes name with args and folds combined output into the error.
// A missing binary surfaces as an error wrapping exec.ErrNotFound.
func RunCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tailOutput(output))
	}
	return nil
}

// StreamingRunner returns a CommandRunner that copies the command's output to w
// while it runs. The last lines of output are kept for the error message.
func StreamingRunner(w io.Writer) CommandRunner {
	if w == nil {
		return RunCommand
	}
	return func(ctx context.Context, name string, args ...string) error {
		var captured bytes.Buffer
		out := io.MultiWriter(w, &captured)
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w: %s", name, err, tailOutput(captured.Bytes()))
		}
		return nil
	}
}

func tailOutput(output []byte) string {
	const maxLines = 10
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
