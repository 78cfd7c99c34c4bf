package installer

import (
	"io/fs"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/logging"
)

// Removal is what uninstall did to one destination
type Removal struct {
	Dest string

	// WasLast is false when a more recent unit still owns the file, in which
	// case nothing on disk was touched
	WasLast bool

	// Owner is the unit owning the file after the removal, if any
	Owner string

	// Removed is true when the destination file was deleted
	Removed bool

	// RestoredFrom is the unit whose copy was put back, if any
	RestoredFrom string

	// Err is a removal or restore failure; it never stops other removals
	Err error
}

// Uninstall releases every claim the unit holds. Where the unit was the
// latest claimant the file is deleted and the newest remaining claimant
// whose origin still exists is copied back. A missing or invalid ledger
// means nothing to do. File errors are logged and reported per Removal;
// the returned error is only set when the ledger could not be updated.
func (i *Installer) Uninstall() ([]Removal, error) {
	logger := logging.GetLogger("installer")
	done := logging.LogOperationStart(logger, "uninstall")
	defer done()

	releases, err := i.store.ReleaseClaims(i.unit.Identity)
	if err != nil {
		return nil, err
	}

	removals := make([]Removal, 0, len(releases))
	for _, r := range releases {
		rm := Removal{Dest: r.Dest, WasLast: r.WasLast}

		if !r.WasLast {
			rm.Owner = r.Remaining[len(r.Remaining)-1].Unit
			logger.Debug().Str("dest", r.Dest).Str("owner", rm.Owner).Msg("Not the latest claimant, leaving file")
			removals = append(removals, rm)
			continue
		}

		switch err := i.fs.Remove(r.Dest); {
		case err == nil:
			rm.Removed = true
			logger.Info().Str("dest", r.Dest).Msg("Removed")
			i.notifier.Removed(r.Dest)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug().Str("dest", r.Dest).Msg("Already gone")
		default:
			rm.Err = errors.Wrapf(err, errors.ErrFileRemove, "failed to remove %s", r.Dest)
			logger.Warn().Err(err).Str("dest", r.Dest).Msg("Could not remove file")
			removals = append(removals, rm)
			continue
		}

		for n := len(r.Remaining) - 1; n >= 0; n-- {
			claim := r.Remaining[n]
			if !filesystem.Exists(i.fs, claim.Origin) {
				logger.Debug().Str("origin", claim.Origin).Str("unit", claim.Unit).Msg("Origin gone, trying older claimant")
				continue
			}

			rm.Owner = claim.Unit
			if err := i.copyFile(claim.Origin, r.Dest); err != nil {
				rm.Err = errors.Wrapf(err, errors.ErrFileCopy, "failed to restore %s from %s", r.Dest, claim.Unit)
				logger.Warn().Err(err).Str("dest", r.Dest).Str("unit", claim.Unit).Msg("Could not restore file")
				break
			}

			rm.RestoredFrom = claim.Unit
			logger.Info().Str("dest", r.Dest).Str("unit", claim.Unit).Msg("Restored")
			i.notifier.Restored(r.Dest, claim.Unit)
			break
		}

		removals = append(removals, rm)
	}

	return removals, nil
}
