package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultBinary is used when no yt-dlp path is configured.
const DefaultBinary = "yt-dlp"

// CanonicalPostprocessorArgs asks yt-dlp's ffmpeg postprocessor for mono 16 kHz 16-bit PCM.
const CanonicalPostprocessorArgs = "ffmpeg:-ar 16000 -ac 1 -sample_fmt s16"

// ProgressUpdate captures a yt-dlp download progress line.
type ProgressUpdate struct {
	Percent float64
	Message string
}

// Executor abstracts command execution for testability. onLine receives
// stdout and stderr lines one at a time, never concurrently.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the configured executable.
func (c *Client) Binary() string { return c.binary }

// OutputTemplate returns the yt-dlp -o template for base inside dir.
func OutputTemplate(dir, base string) string {
	return filepath.Join(dir, base+".%(ext)s")
}

// PrimaryArgs extracts audio straight to canonical WAV.
func PrimaryArgs(outputTemplate, url string) []string {
	return []string{
		"-x",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--postprocessor-args", CanonicalPostprocessorArgs,
		"-o", outputTemplate,
		"--", url,
	}
}

// FallbackArgs extracts audio in the best format the source offers.
func FallbackArgs(outputTemplate, url string) []string {
	return []string{
		"-x",
		"--audio-format", "best",
		"-o", outputTemplate,
		"--", url,
	}
}

// Extract runs yt-dlp with args. Progress lines are parsed and forwarded when
// progress is non-nil.
func (c *Client) Extract(ctx context.Context, args []string, progress func(ProgressUpdate)) error {
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	}); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// parseProgress reads lines like "[download]  42.3% of ~3.47MiB at 1.2MiB/s ETA 00:02".
func parseProgress(line string) (ProgressUpdate, bool) {
	line = strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(line, "[download]")
	if !ok {
		return ProgressUpdate{}, false
	}
	rest = strings.TrimSpace(rest)
	idx := strings.IndexByte(rest, '%')
	if idx <= 0 {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil || percent < 0 || percent > 100 {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Percent: percent, Message: rest}, true
}

// scanLines splits on \n or \r so carriage-return progress redraws surface as lines.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tailBuffer keeps the last few output lines for error messages.
type tailBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func (t *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	tail := &tailBuffer{max: 10}
	var lineMu sync.Mutex
	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Split(scanLines)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			tail.add(line)
			if onLine != nil {
				lineMu.Lock()
				onLine(line)
				lineMu.Unlock()
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("exit %d: %w: %s", exitErr.ExitCode(), err, tail.String())
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
