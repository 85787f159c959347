package summarization_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"vidsum/internal/config"
	"vidsum/internal/services/ollama"
	"vidsum/internal/summarization"
)

type fakeOllama struct {
	models       []string
	generate     http.HandlerFunc
	generateHits atomic.Int32
	lastPrompt   string
	lastOptions  map[string]any
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/tags":
		entries := make([]map[string]string, 0, len(f.models))
		for _, m := range f.models {
			entries = append(entries, map[string]string{"name": m})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": entries})
	case "/api/generate":
		f.generateHits.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastPrompt, _ = body["prompt"].(string)
		f.lastOptions, _ = body["options"].(map[string]any)
		if f.generate != nil {
			f.generate(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "\n## Sujet\n\n### 🎯 Points clés\n", "done": true})
	default:
		http.NotFound(w, r)
	}
}

func newSummarizer(t *testing.T, fake *fakeOllama) *summarization.Summarizer {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	cfg := config.Default()
	cfg.Generation.BaseURL = server.URL
	cfg.Generation.Model = "qwen2.5:7b"
	return summarization.New(&cfg, nil)
}

func TestSummarizeSuccess(t *testing.T) {
	fake := &fakeOllama{models: []string{"qwen2.5:7b"}}
	var waited, released bool
	s := newSummarizerWithWait(t, fake, &waited, &released)

	res, err := s.Summarize(context.Background(), "Alors euh bonjour à tous")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.Text != "## Sujet\n\n### 🎯 Points clés" || res.Model != "qwen2.5:7b" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(fake.lastPrompt, "# TRANSCRIPTION À ANALYSER\nAlors euh bonjour à tous\n") {
		t.Fatalf("transcript not embedded verbatim:\n%s", fake.lastPrompt)
	}
	if fake.lastOptions["temperature"] != 0.4 || fake.lastOptions["typical_p"] != 0.95 || fake.lastOptions["num_gpu"] != float64(0) {
		t.Fatalf("unexpected options %v", fake.lastOptions)
	}
	if !waited || !released {
		t.Fatalf("wait indicator not bracketed: waited=%v released=%v", waited, released)
	}
}

func newSummarizerWithWait(t *testing.T, fake *fakeOllama, waited, released *bool) *summarization.Summarizer {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	cfg := config.Default()
	cfg.Generation.BaseURL = server.URL
	cfg.Generation.Model = "qwen2.5:7b"
	return summarization.New(&cfg, nil, summarization.WithWaitIndicator(func(string) func() {
		*waited = true
		return func() { *released = true }
	}))
}

func TestSummarizeMissingModelSkipsGenerate(t *testing.T) {
	fake := &fakeOllama{models: []string{"llama3.2:3b"}}
	s := newSummarizer(t, fake)

	_, err := s.Summarize(context.Background(), "texte")
	if ollama.KindOf(err) != ollama.KindModelUnavailable {
		t.Fatalf("expected model unavailable, got %v", err)
	}
	if fake.generateHits.Load() != 0 {
		t.Fatal("generate must not be called when the model is missing")
	}
}

func TestSummarizeMalformedResponse(t *testing.T) {
	fake := &fakeOllama{
		models: []string{"qwen2.5:7b"},
		generate: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"done":true}`))
		},
	}
	_, err := newSummarizer(t, fake).Summarize(context.Background(), "texte")
	if ollama.KindOf(err) != ollama.KindMalformedResponse {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	ok := newSummarizer(t, &fakeOllama{models: []string{"qwen2.5:7b"}})
	if err := ok.CheckAvailability(context.Background()); err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	missing := newSummarizer(t, &fakeOllama{})
	if err := missing.CheckAvailability(context.Background()); ollama.KindOf(err) != ollama.KindModelUnavailable {
		t.Fatalf("expected model unavailable, got %v", err)
	}
}

func TestBuildPromptSections(t *testing.T) {
	prompt := summarization.BuildPrompt("50% des gens {{x}}")
	for _, want := range []string{
		"# RÔLE",
		"50% des gens {{x}}",
		"## [Titre principal du sujet traité]",
		"### 🎯 Points clés",
		"### 📋 Informations importantes",
		"### 💡 Analyse et implications",
		"### ✅ Synthèse finale",
		"- Longueur : 300-500 mots",
		"5. Maintiens la nuance et les subtilités du propos original",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
