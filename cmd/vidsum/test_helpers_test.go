package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"vidsum/internal/testsupport"
)

const testModel = "qwen2.5:7b"

type fakeOllama struct {
	mu             sync.Mutex
	models         []string
	generateStatus int
	summary        string
	prompts        []string
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/api/tags":
		models := make([]map[string]any, 0, len(f.models))
		for _, name := range f.models {
			models = append(models, map[string]any{
				"name":        name,
				"size":        4683087332,
				"modified_at": "2026-01-02T15:04:05Z",
				"details":     map[string]any{"parameter_size": "7.6B", "quantization_level": "Q4_K_M"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
	case "/api/generate":
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.Unmarshal(body, &req)
		f.prompts = append(f.prompts, req.Prompt)
		if f.generateStatus != 0 && f.generateStatus != http.StatusOK {
			http.Error(w, "model crashed", f.generateStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model": testModel, "response": f.summary, "done": true})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOllama) prompt(t *testing.T, i int) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.prompts) {
		t.Fatalf("generate called %d time(s), want at least %d", len(f.prompts), i+1)
	}
	return f.prompts[i]
}

func (f *fakeOllama) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type cliTestEnv struct {
	baseDir       string
	workDir       string
	configPath    string
	transcription string
	summary       string
	ollama        *fakeOllama
	server        *httptest.Server
	ntfyTopic     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"OLLAMA_HOST", "VIDSUM_OLLAMA_MODEL", "VIDSUM_WHISPER_MODEL", "VIDSUM_LANGUAGE"} {
		t.Setenv(key, "")
	}

	fake := &fakeOllama{models: []string{testModel, "mistral:7b"}, summary: "## Sujet principal\n\n### 🎯 Points clés\n- **Point** un"}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	env := &cliTestEnv{
		baseDir:       base,
		workDir:       filepath.Join(base, "work"),
		configPath:    filepath.Join(base, "vidsum.toml"),
		transcription: filepath.Join(base, "out", "transcription.txt"),
		summary:       filepath.Join(base, "out", "resume.txt"),
		ollama:        fake,
		server:        srv,
	}
	env.writeConfig(t, nil)
	return env
}

// writeConfig renders the test config. tools maps binary names to stub paths.
func (e *cliTestEnv) writeConfig(t *testing.T, tools map[string]string) {
	t.Helper()
	tool := func(name string) string {
		if path, ok := tools[name]; ok {
			return path
		}
		return filepath.Join(e.baseDir, "missing", name)
	}
	content := fmt.Sprintf(`[paths]
work_dir = %q
transcription_output = %q
summary_output = %q
log_dir = %q

[acquisition]
ytdlp_binary = %q
ffmpeg_binary = %q
ffprobe_binary = %q

[transcription]
model = "turbo"
language = "fr"
whisper_binary = %q

[generation]
base_url = %q
model = %q
timeout_seconds = 30

[logging]
format = "json"
level = "debug"
`,
		e.workDir, e.transcription, e.summary, filepath.Join(e.baseDir, "logs"),
		tool("yt-dlp"), tool("ffmpeg"), tool("ffprobe"), tool("whisper"),
		e.server.URL, testModel,
	)
	if e.ntfyTopic != "" {
		content += fmt.Sprintf("\n[notifications]\nntfy_topic = %q\n", e.ntfyTopic)
	}
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// stubTools writes yt-dlp, ffprobe, and whisper scripts that mimic the files
// and output the real tools produce.
func (e *cliTestEnv) stubTools(t *testing.T) map[string]string {
	t.Helper()
	binDir := filepath.Join(e.baseDir, "bin")
	tools := map[string]string{
		"yt-dlp": testsupport.WriteStub(t, binDir, "yt-dlp", `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
[ -n "$out" ] || exit 0
target=$(printf '%s' "$out" | sed 's/%(ext)s/wav/')
printf 'RIFF' > "$target"
echo "[download] 100.0% of 1.00MiB"`),
		"ffmpeg": testsupport.WriteStub(t, binDir, "ffmpeg", "exit 0"),
		"ffprobe": testsupport.WriteStub(t, binDir, "ffprobe", `cat <<'JSON'
{"streams":[{"index":0,"codec_name":"pcm_s16le","codec_type":"audio","sample_rate":"16000","sample_fmt":"s16","channels":1,"bits_per_sample":16}],"format":{"filename":"audio.wav","duration":"1.0","size":"4"}}
JSON`),
		"whisper": testsupport.WriteStub(t, binDir, "whisper", `src="$1"
dir=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then dir="$2"; shift; fi
  shift
done
[ -n "$dir" ] || exit 0
name=$(basename "$src" .wav)
printf '  bonjour tout le monde  ' > "$dir/$name.txt"`),
	}
	e.writeConfig(t, tools)
	return tools
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--env-file", ""}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
