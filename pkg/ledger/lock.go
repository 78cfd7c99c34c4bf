package ledger

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/gofrs/flock"
)

// Locker serialises read-modify-write cycles on one ledger file
type Locker interface {
	Lock() error
	Unlock() error
}

// LockerFactory returns the Locker guarding a ledger path
type LockerFactory func(ledgerPath string) Locker

// FileLocker takes an advisory exclusive lock on "<ledger>.lock"
type FileLocker struct {
	path string
	lock *flock.Flock
}

// NewFileLocker is the default LockerFactory
func NewFileLocker(ledgerPath string) Locker {
	lockPath := ledgerPath + ".lock"
	return &FileLocker{path: lockPath, lock: flock.New(lockPath)}
}

// Lock blocks until the lock is held, creating the lock file's directory
// if needed.
func (l *FileLocker) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerLock, "failed to create directory for %s", l.path)
	}
	if err := l.lock.Lock(); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerLock, "failed to lock %s", l.path)
	}
	return nil
}

// Unlock releases the lock
func (l *FileLocker) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerLock, "failed to unlock %s", l.path)
	}
	return nil
}

// NopLocker does nothing; for in-memory filesystems
type NopLocker struct{}

func (NopLocker) Lock() error   { return nil }
func (NopLocker) Unlock() error { return nil }

// NewNopLocker is a LockerFactory returning NopLocker
func NewNopLocker(string) Locker { return NopLocker{} }
