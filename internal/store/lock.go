package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockFile is the advisory lock inside the data dir.
const lockFile = ".lock"

// Lock is a cross-process advisory lock over the data directory. The
// scheduled tracking run and every interactive mutation hold it for the full
// load-mutate-save cycle, closing the lost-update window that two independent
// writers with atomic replace alone would leave open.
type Lock struct {
	fl *flock.Flock
}

// NewLock constructs the advisory lock for dataDir.
func NewLock(dataDir string) (*Lock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store.NewLock: %w", err)
	}
	return &Lock{fl: flock.New(filepath.Join(dataDir, lockFile))}, nil
}

// Acquire blocks until the lock is held or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	ok, err := l.fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("store.Lock.Acquire: %w", err)
	}
	if !ok {
		return fmt.Errorf("store.Lock.Acquire: lock not acquired")
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("store.Lock.Release: %w", err)
	}
	return nil
}
