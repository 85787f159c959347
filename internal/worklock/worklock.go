// Package worklock guards a working directory against concurrent vidsum runs.
package worklock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the working directory.
const FileName = ".vidsum.lock"

// ErrBusy reports that another run holds the lock.
var ErrBusy = errors.New("another vidsum run is using this working directory")

// Lock is a held working directory lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for workDir without blocking.
func Acquire(workDir string) (*Lock, error) {
	if workDir == "" {
		workDir = "."
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure work dir: %w", err)
	}
	path := filepath.Join(workDir, FileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrBusy, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks the lock. The lock file itself is never removed.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
