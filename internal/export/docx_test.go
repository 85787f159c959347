package export

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleSummary = `## La transition énergétique

### 🎯 Points clés
- **Sobriété** avant tout
- Investissements publics

### ✅ Synthèse finale
1. Agir vite`

func TestWriteDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "resume.docx")
	err := WriteDocx(path, Document{
		Title:       TitleFromMarkdown(sampleSummary),
		SourceURL:   "https://youtu.be/x",
		Model:       "qwen2.5:7b",
		GeneratedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		Markdown:    sampleSummary,
	})
	if err != nil {
		t.Fatalf("WriteDocx: %v", err)
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer archive.Close()

	var body string
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		data, _ := io.ReadAll(rc)
		_ = rc.Close()
		body = string(data)
	}
	for _, want := range []string{"La transition énergétique", "Sobriété", "Synthèse finale", "qwen2.5:7b"} {
		if !strings.Contains(body, want) {
			t.Fatalf("document.xml missing %q", want)
		}
	}
	if strings.Contains(body, "**") {
		t.Fatal("markdown emphasis markers should be stripped")
	}
}

func TestWriteDocxRejectsEmpty(t *testing.T) {
	if err := WriteDocx(filepath.Join(t.TempDir(), "a.docx"), Document{}); err == nil {
		t.Fatal("expected error for empty summary")
	}
	if err := WriteDocx("", Document{Markdown: "x"}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestTitleFromMarkdown(t *testing.T) {
	if got := TitleFromMarkdown("intro\n## [Le sujet]\n### autre"); got != "Le sujet" {
		t.Fatalf("title = %q", got)
	}
	if got := TitleFromMarkdown("pas de titre"); got != "" {
		t.Fatalf("title = %q", got)
	}
}
