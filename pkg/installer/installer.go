package installer

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/outsider/pkg/config"
	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/ledger"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/paths"
	"github.com/arthur-debert/outsider/pkg/template"
	"github.com/arthur-debert/outsider/pkg/types"
	"github.com/arthur-debert/outsider/pkg/unit"
)

const dirPerm = 0755

// Options configures an Installer
type Options struct {
	// FS defaults to the OS filesystem
	FS types.FS

	// Env is the invoking user's environment
	Env config.Environment

	// LedgerPath bypasses ledger location resolution when set
	LedgerPath string

	// Notifier receives one call per file installed, removed or restored
	Notifier Notifier

	// Locker replaces the default flock-based ledger lock
	Locker ledger.LockerFactory

	// HomeLookup resolves other users' homes in templates; defaults to the
	// system user database
	HomeLookup template.HomeLookup
}

// Installer installs and uninstalls the files of one unit
type Installer struct {
	unit        *unit.Unit
	fs          types.FS
	env         config.Environment
	userInstall bool
	tmpl        template.Context
	store       *ledger.Store
	notifier    Notifier
}

// New prepares an installer for u. The install mode is derived from
// whether the unit directory is inside the home directory.
func New(u *unit.Unit, opts Options) (*Installer, error) {
	if u == nil {
		return nil, errors.New(errors.ErrInvalidInput, "unit is required")
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}

	userInstall := paths.IsUserInstall(u.Dir, opts.Env.Home)

	ledgerPath := opts.LedgerPath
	if ledgerPath == "" {
		var err error
		ledgerPath, err = paths.LedgerPath(fsys, opts.Env, userInstall)
		if err != nil {
			return nil, err
		}
	}

	tmpl := template.NewContext(opts.Env)
	if opts.HomeLookup != nil {
		tmpl.Lookup = opts.HomeLookup
	}

	logger := logging.GetLogger("installer")
	logger.Debug().
		Str("unit", u.Identity).
		Str("dir", u.Dir).
		Bool("user_install", userInstall).
		Str("ledger", ledgerPath).
		Msg("Installer ready")

	return &Installer{
		unit:        u,
		fs:          fsys,
		env:         opts.Env,
		userInstall: userInstall,
		tmpl:        tmpl,
		store:       ledger.NewStore(fsys, ledgerPath, ledger.WithLocker(opts.Locker)),
		notifier:    notifier,
	}, nil
}

// UserInstall reports whether destinations are rewritten under home
func (i *Installer) UserInstall() bool {
	return i.userInstall
}

// LedgerPath returns the ledger file this installer records claims in
func (i *Installer) LedgerPath() string {
	return i.store.Path()
}

// Install copies every declared file whose source exists, in declaration
// order, then records the copies in the ledger. The first copy failure
// aborts the install; files copied before it are returned along with the
// error and are not recorded.
func (i *Installer) Install() ([]ledger.Placement, error) {
	logger := logging.GetLogger("installer")
	done := logging.LogOperationStart(logger, "install")
	defer done()

	var placements []ledger.Placement
	for _, entry := range i.unit.Entries {
		dest, err := i.Destination(entry)
		if err != nil {
			return placements, err
		}

		src := i.unit.SourcePath(entry.Source)
		if !filesystem.Exists(i.fs, src) {
			logger.Debug().Str("source", src).Msg("Source missing, skipping")
			continue
		}

		if err := i.copyFile(src, dest); err != nil {
			return placements, errors.Wrapf(err, errors.ErrFileCopy, "failed to install %s to %s", entry.Source, dest).
				WithDetail("unit", i.unit.Identity).
				WithDetail("source", src).
				WithDetail("dest", dest)
		}

		logger.Info().Str("source", entry.Source).Str("dest", dest).Msg("Installed")
		i.notifier.Installed(entry.Source, dest)
		placements = append(placements, ledger.Placement{Dest: dest, Origin: src})
	}

	if len(placements) == 0 {
		logger.Debug().Str("unit", i.unit.Identity).Msg("Nothing installed, ledger untouched")
		return nil, nil
	}

	if err := i.store.RecordClaims(i.unit.Identity, placements); err != nil {
		return placements, err
	}
	return placements, nil
}

// copyFile copies src to dest. When dest's directory is missing, each
// missing ancestor is created from the root down and the copy is retried
// once.
func (i *Installer) copyFile(src, dest string) error {
	err := filesystem.CopyFile(i.fs, src, dest)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := i.createAncestors(dest); err != nil {
		return err
	}
	return filesystem.CopyFile(i.fs, src, dest)
}

func (i *Installer) createAncestors(dest string) error {
	var missing []string
	for dir := filepath.Dir(dest); ; dir = filepath.Dir(dir) {
		_, err := i.fs.Stat(dir)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		missing = append(missing, dir)
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	logger := logging.GetLogger("installer")
	for n := len(missing) - 1; n >= 0; n-- {
		if err := i.fs.Mkdir(missing[n], dirPerm); err != nil && !errors.Is(err, fs.ErrExist) {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", missing[n])
		}
		logger.Debug().Str("dir", missing[n]).Msg("Created directory")
	}
	return nil
}
