package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTextFileCreatesParentAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "resume.txt")
	if err := WriteTextFile(path, "première version"); err != nil {
		t.Fatalf("WriteTextFile: %v", err)
	}
	if err := WriteTextFile(path, "## Résumé"); err != nil {
		t.Fatalf("WriteTextFile overwrite: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "## Résumé" {
		t.Fatalf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestExistsAndSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wav")
	if Exists(path) || Exists("") || Exists(dir) {
		t.Fatal("Exists should be false for missing files, empty paths and directories")
	}
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) || Size(path) != 4 {
		t.Fatalf("Exists=%v Size=%d", Exists(path), Size(path))
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.wav")
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil || Exists(path) {
		t.Fatalf("remove failed: %v", err)
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audio.tmp.wav")
	dest := filepath.Join(dir, "audio.wav")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ReplaceFile(src, dest); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "new" || Exists(src) {
		t.Fatalf("dest=%q srcExists=%v", got, Exists(src))
	}
}
