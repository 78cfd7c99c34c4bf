package paths

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/outsider/pkg/config"
	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/types"
)

// Ledger location sources, reported by LedgerLocation for logging and the
// ledger command
const (
	SourceUser     = "user"
	SourceEnv      = "env"
	SourceConfig   = "config"
	SourceDefault  = "default"
	SourceExplicit = "explicit"
)

// IsUserInstall reports whether a unit directory lives under the invoking
// user's home directory, which switches the installer to per-user mode.
func IsUserInstall(unitDir, home string) bool {
	if home == "" || unitDir == "" {
		return false
	}
	home = filepath.Clean(home)
	unitDir = filepath.Clean(unitDir)
	if home == string(filepath.Separator) {
		return true
	}
	return unitDir == home || strings.HasPrefix(unitDir, home+string(filepath.Separator))
}

// LedgerPath returns the ledger file to use for an install mode.
func LedgerPath(fsys types.FS, env config.Environment, userInstall bool) (string, error) {
	path, _, err := LedgerLocation(fsys, env, userInstall)
	return path, err
}

// LedgerLocation resolves the ledger file and reports where the value came
// from.
//
// Per-user installs always use UserRecordFile under the home directory.
// Global installs use, in order: OUTSIDER_RECORD_FILE, the content of the
// system config file when it exists and is not blank, the compiled-in
// default.
func LedgerLocation(fsys types.FS, env config.Environment, userInstall bool) (string, string, error) {
	logger := logging.GetLogger("paths")

	if userInstall {
		if env.Home == "" {
			return "", "", errors.New(errors.ErrHomeDir, "per-user install requires a home directory")
		}
		return filepath.Join(env.Home, env.UserRecordFile), SourceUser, nil
	}

	if env.RecordFile != "" {
		return env.RecordFile, SourceEnv, nil
	}

	if env.ConfigFile != "" {
		data, err := fsys.ReadFile(env.ConfigFile)
		switch {
		case err == nil:
			if path := strings.TrimSpace(string(data)); path != "" {
				return path, SourceConfig, nil
			}
			logger.Debug().Str("config", env.ConfigFile).Msg("system config is empty, using default ledger")
		case errors.Is(err, fs.ErrNotExist):
			logger.Trace().Str("config", env.ConfigFile).Msg("no system config")
		default:
			return "", "", errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", env.ConfigFile).
				WithDetail("path", env.ConfigFile)
		}
	}

	return env.DefaultRecordFile, SourceDefault, nil
}

// ExpandHome replaces a leading "~" or "~/" with home
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
