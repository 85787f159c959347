package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidsum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a normalized-looking config rooted in a unique temp
// directory. The environment is not consulted.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = work
	cfgVal.Paths.TranscriptionOutput = filepath.Join(base, "transcription.txt")
	cfgVal.Paths.SummaryOutput = filepath.Join(base, "resume.txt")
	cfgVal.Paths.ExistingTranscription = cfgVal.Paths.TranscriptionOutput
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Transcription.Model = "turbo"
	cfgVal.Transcription.Language = "fr"
	cfgVal.Generation.BaseURL = "http://127.0.0.1:11434"
	cfgVal.Generation.Model = "qwen2.5:7b"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOllama points the generation settings at baseURL and model.
func WithOllama(baseURL, model string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Generation.BaseURL = baseURL
		if model != "" {
			b.cfg.Generation.Model = model
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default vidsum external
// binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "ffprobe", "whisper"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteStub(b.t, binDir, name, "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
