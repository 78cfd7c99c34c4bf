package ledger

import (
	"io/fs"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/types"
)

// Store performs locked read-modify-write cycles on one ledger file
type Store struct {
	fs     types.FS
	path   string
	locker LockerFactory
}

// Option configures a Store
type Option func(*Store)

// WithLocker replaces the default flock-based locker
func WithLocker(factory LockerFactory) Option {
	return func(s *Store) {
		if factory != nil {
			s.locker = factory
		}
	}
}

// NewStore returns a Store for the ledger at path
func NewStore(fsys types.FS, path string, opts ...Option) *Store {
	s := &Store{
		fs:     fsys,
		path:   path,
		locker: NewFileLocker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the ledger file this store manages
func (s *Store) Path() string {
	return s.path
}

// RecordClaims claims every placement for unit. A corrupt ledger is moved
// aside and replaced by a fresh one; if that one is also corrupt the error
// is returned.
func (s *Store) RecordClaims(unit string, placements []Placement) error {
	logger := logging.GetLogger("ledger")

	return s.withLock(func() error {
		l, err := Load(s.fs, s.path)
		if IsCorruption(err) {
			if _, renameErr := RenameAside(s.fs, s.path); renameErr != nil {
				return renameErr
			}
			l, err = Load(s.fs, s.path)
		}
		if err != nil {
			return err
		}

		for _, p := range placements {
			l.Claim(p.Dest, unit, p.Origin)
		}

		logger.Debug().
			Str("ledger", s.path).
			Str("unit", unit).
			Int("claims", len(placements)).
			Msg("Recording claims")
		return Save(s.fs, s.path, l)
	})
}

// ReleaseClaims removes every claim held by unit and reports what was
// released. A missing or corrupt ledger releases nothing and is left as is.
func (s *Store) ReleaseClaims(unit string) ([]Release, error) {
	logger := logging.GetLogger("ledger")

	if _, err := s.fs.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("ledger", s.path).Msg("No ledger, nothing to release")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrLedgerRead, "failed to stat ledger %s", s.path)
	}

	var releases []Release
	err := s.withLock(func() error {
		l, err := Load(s.fs, s.path)
		if IsCorruption(err) {
			logger.Debug().Err(err).Str("ledger", s.path).Msg("Ignoring invalid ledger on release")
			return nil
		}
		if err != nil {
			return err
		}

		releases = l.Release(unit)
		if len(releases) == 0 {
			return nil
		}
		return Save(s.fs, s.path, l)
	})
	if err != nil {
		return nil, err
	}
	return releases, nil
}

// Claims loads the ledger without modifying it
func (s *Store) Claims() (Ledger, error) {
	return Load(s.fs, s.path)
}

func (s *Store) withLock(fn func() error) (err error) {
	lock := s.locker(s.path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}()
	return fn()
}
