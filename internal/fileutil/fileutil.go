// Package fileutil holds small filesystem helpers shared by the pipeline stages.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the size of path in bytes, or 0 when it cannot be read.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ReplaceFile moves src over dest.
func ReplaceFile(src, dest string) error {
	if src == dest {
		return nil
	}
	if err := RemoveIfExists(dest); err != nil {
		return fmt.Errorf("remove existing target: %w", err)
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(src), err)
	}
	return nil
}

// WriteTextFile writes text as UTF-8 to path through a temp file and rename,
// creating the parent directory when needed. Readers never observe a partial file.
func WriteTextFile(path, text string) error {
	if path == "" {
		return errors.New("write text file: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
