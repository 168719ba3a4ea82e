package thumbs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"artref/internal/textutil"
)

// ErrLocked is returned when another run holds the destination lock.
var ErrLocked = errors.New("another thumbnail run is using this destination")

// Lock guards a destination root against concurrent mirror runs.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for dstRoot inside lockDir.
func LockPath(lockDir, dstRoot string) string {
	return filepath.Join(lockDir, textutil.SanitizeToken(dstRoot)+".lock")
}

// AcquireLock takes the run lock for dstRoot without waiting.
func AcquireLock(lockDir, dstRoot string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := LockPath(lockDir, dstRoot)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks the destination.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
