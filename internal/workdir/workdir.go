package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock file kept inside the working directory.
const LockFileName = ".sredun.lock"

// ErrLocked indicates another run currently holds the working directory.
var ErrLocked = errors.New("working directory is locked by another run")

// Ensure creates the working directory if needed.
func Ensure(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("working directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create working directory: %w", err)
	}
	return nil
}

// Lock is an advisory hold on a working directory. The engine itself
// tolerates overlapping runs, so locking is opt-in for operators who want
// exclusivity over a shared directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the advisory lock without blocking. A directory held by
// another process yields ErrLocked.
func Acquire(dir string) (*Lock, error) {
	if err := Ensure(dir); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(dir, LockFileName)
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &Lock{path: lockPath, lock: fl}, nil
}

// Path reports the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release drops the lock. Releasing a nil lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
