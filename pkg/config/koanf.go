package config

import (
	"os"
	"os/user"
	"strings"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Environment variable names
const (
	EnvPrefix     = "OUTSIDER_"
	EnvRecordFile = "OUTSIDER_RECORD_FILE"
	EnvConfigFile = "OUTSIDER_CONFIG_FILE"
	EnvHome       = "HOME"
)

// Environment is everything outsider reads from the invoking user's
// environment, resolved once at startup.
type Environment struct {
	// Home is the invoking user's home directory
	Home string `koanf:"home"`

	// RecordFile is the explicit ledger override (OUTSIDER_RECORD_FILE)
	RecordFile string `koanf:"record_file"`

	// ConfigFile is the system config file naming the global ledger
	ConfigFile string `koanf:"config_file"`

	// DefaultRecordFile is the compiled-in global ledger location
	DefaultRecordFile string `koanf:"default_record_file"`

	// UserRecordFile is the per-user ledger, relative to Home
	UserRecordFile string `koanf:"user_record_file"`

	// DeclarationFile is the name of the declaration inside a unit dir
	DeclarationFile string `koanf:"declaration_file"`

	// Vars holds every environment variable, for path templates
	Vars map[string]string `koanf:"-"`
}

// Load builds the Environment from the embedded defaults and the process
// environment.
func Load() (Environment, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Environment{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", outsiderVar), nil); err != nil {
		return Environment{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load OUTSIDER_* variables")
	}

	if err := k.Load(env.ProviderWithValue(EnvHome, ".", homeVar), nil); err != nil {
		return Environment{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load HOME")
	}

	var e Environment
	if err := k.Unmarshal("", &e); err != nil {
		return Environment{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to decode environment")
	}

	if e.Home == "" {
		home, err := lookupHome()
		if err != nil {
			return Environment{}, err
		}
		e.Home = home
	}

	e.Vars = environMap(os.Environ())
	return e, nil
}

// outsiderVar maps OUTSIDER_RECORD_FILE to record_file. Empty values are
// skipped so that `OUTSIDER_RECORD_FILE=` does not count as an override.
func outsiderVar(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
}

// homeVar keeps HOME only; the provider prefix also matches HOMEBREW_* etc.
func homeVar(key, value string) (string, interface{}) {
	if key != EnvHome || value == "" {
		return "", nil
	}
	return "home", value
}

// lookupHome falls back to the passwd entry when HOME is unset
func lookupHome() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrHomeDir, "HOME is not set and the current user cannot be looked up")
	}
	if u.HomeDir == "" {
		return "", errors.New(errors.ErrHomeDir, "unable to determine home directory")
	}
	return u.HomeDir, nil
}

func environMap(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[name] = value
	}
	return vars
}
