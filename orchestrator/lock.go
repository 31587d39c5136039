package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBatchLocked is returned when another batch is already writing into the
// same explicit output directory.
var ErrBatchLocked = errors.New("another batch is writing to this output directory")

// dirLock is an advisory lock keyed by an absolute output directory. The lock
// file lives in lockDir, not in the output directory.
type dirLock struct {
	path string
	lock *flock.Flock
}

func lockPathFor(lockDir, outputDir string) (string, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, "audioconv-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

func acquireDirLock(lockDir, outputDir string) (*dirLock, error) {
	path, err := lockPathFor(lockDir, outputDir)
	if err != nil {
		return nil, err
	}
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrBatchLocked, outputDir, path)
	}
	return &dirLock{path: path, lock: l}, nil
}

func (d *dirLock) release() error {
	if d == nil {
		return nil
	}
	return d.lock.Unlock()
}
