package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidsum/internal/config"
	"vidsum/internal/deps"
	"vidsum/internal/services/ollama"
	"vidsum/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func ollamaServer(t *testing.T, names ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		models := make([]map[string]any, 0, len(names))
		for _, name := range names {
			models = append(models, map[string]any{"name": name})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckGenerationModel(t *testing.T) {
	srv := ollamaServer(t, "qwen2.5:7b", "mistral:7b")
	client := ollama.NewClient(ollama.Config{BaseURL: srv.URL})

	ok := CheckGenerationModel(context.Background(), client, "qwen2.5:7b")
	if !ok.Passed {
		t.Fatalf("expected pass, got %q", ok.Detail)
	}

	missing := CheckGenerationModel(context.Background(), client, "llama3.2:3b")
	if missing.Passed {
		t.Fatal("expected failure for missing model")
	}
	for _, want := range []string{"mistral:7b", "ollama pull llama3.2:3b"} {
		if !strings.Contains(missing.Detail, want) {
			t.Fatalf("detail %q missing %q", missing.Detail, want)
		}
	}
}

func TestCheckGenerationModelUnreachable(t *testing.T) {
	srv := ollamaServer(t)
	url := srv.URL
	srv.Close()

	result := CheckGenerationModel(context.Background(), ollama.NewClient(ollama.Config{BaseURL: url}), "qwen2.5:7b")
	if result.Passed || !strings.Contains(result.Detail, "ollama serve") {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestCheckSystemDepsFollowsEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Engine = "whisper"
	names := depNames(CheckSystemDeps(context.Background(), &cfg))
	if !strings.Contains(names, "Whisper") || strings.Contains(names, "uvx") {
		t.Fatalf("whisper engine deps = %s", names)
	}

	cfg.Transcription.Engine = "whisperx"
	names = depNames(CheckSystemDeps(context.Background(), &cfg))
	if !strings.Contains(names, "uvx") || strings.Contains(names, "Whisper") {
		t.Fatalf("whisperx engine deps = %s", names)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_WithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	srv := ollamaServer(t, cfg.Generation.Model)
	client := ollama.NewClient(ollama.Config{BaseURL: srv.URL})

	results := RunAll(context.Background(), cfg, client)
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %s", Summarize(failed))
	}
	if results[0].Name != "Work directory" || results[len(results)-1].Name != "Ollama model" {
		t.Fatalf("unexpected ordering: %#v", results)
	}
}

func TestRunAll_ReportsMissingTools(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Acquisition.YtDlpBinary = "clearly-not-present-yt-dlp"

	failed := Failed(RunAll(context.Background(), cfg, nil))
	if len(failed) == 0 || !strings.Contains(Summarize(failed), "clearly-not-present-yt-dlp") {
		t.Fatalf("expected yt-dlp failure, got %#v", failed)
	}
}

func depNames(statuses []deps.Status) string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	return strings.Join(names, ",")
}
