package ledger

import (
	"fmt"
	"io/fs"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/types"
)

// MaxBackupSuffix bounds the search for a free rename-aside name
const MaxBackupSuffix = 1000

// Reason says why a ledger file was rejected
type Reason string

const (
	// ReasonUnparseable means the file is not valid YAML
	ReasonUnparseable Reason = "not parseable as the expected serialization format"
	// ReasonWrongShape means the YAML does not describe a ledger
	ReasonWrongShape Reason = "wrong structural shape"
)

// CorruptionError is returned when a ledger file exists but cannot be used
type CorruptionError struct {
	File   string
	Reason Reason
	// Detail locates the problem when known, e.g. "line 3: claim is not a mapping"
	Detail string
	Err    error
}

func (e *CorruptionError) Error() string {
	msg := fmt.Sprintf("invalid ledger %s: %s", e.File, e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match corruption against the ErrLedgerCorrupt code
func (e *CorruptionError) Is(target error) bool {
	var coded *errors.OutsiderError
	if errors.As(target, &coded) {
		return coded.Code == errors.ErrLedgerCorrupt
	}
	return false
}

// IsCorruption reports whether err is, or wraps, a CorruptionError
func IsCorruption(err error) bool {
	var corrupt *CorruptionError
	return errors.As(err, &corrupt)
}

// RenameAside moves a corrupt ledger to the first free "<path>-N" name and
// returns that name. Existing backups are never overwritten.
func RenameAside(fsys types.FS, path string) (string, error) {
	for n := 1; n <= MaxBackupSuffix; n++ {
		candidate := fmt.Sprintf("%s-%d", path, n)

		_, err := fsys.Stat(candidate)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrLedgerWrite, "failed to check %s", candidate)
		}

		if err := fsys.Rename(path, candidate); err != nil {
			return "", errors.Wrapf(err, errors.ErrLedgerWrite, "failed to move invalid ledger %s to %s", path, candidate)
		}

		logger := logging.GetLogger("ledger")
		logger.Warn().
			Str("ledger", path).
			Str("backup", candidate).
			Msgf("The file %s isn't a valid record file and was moved to %s", path, candidate)
		return candidate, nil
	}

	return "", errors.Newf(errors.ErrLedgerBackupExhausted,
		"no free backup name for %s after %d attempts", path, MaxBackupSuffix).
		WithDetail("path", path)
}
