// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate test environments with proper dependencies

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/outsider/pkg/config"
	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a home, a ledger location and a place for units
type TestEnvironment struct {
	Root       string
	HomeDir    string
	UnitsDir   string
	OutDir     string
	LedgerPath string
	ConfigFile string

	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment. Isolated environments
// also point HOME, XDG_STATE_HOME and the OUTSIDER_* variables at it.
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{Type: envType, t: t}
	switch envType {
	case EnvIsolated:
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	default:
		env.Root = "/test"
		env.FS = filesystem.NewMemory()
	}

	env.HomeDir = filepath.Join(env.Root, "home", "alice")
	env.UnitsDir = filepath.Join(env.Root, "units")
	env.OutDir = filepath.Join(env.Root, "out")
	env.LedgerPath = filepath.Join(env.Root, "var", "lib", "outsider", "installed_files")
	env.ConfigFile = filepath.Join(env.Root, "etc", "outsider.conf")

	if err := env.FS.MkdirAll(env.HomeDir, 0755); err != nil {
		t.Fatalf("Failed to create home %s: %v", env.HomeDir, err)
	}

	if envType == EnvIsolated {
		t.Setenv("HOME", env.HomeDir)
		t.Setenv("XDG_STATE_HOME", filepath.Join(env.Root, "state"))
		t.Setenv(config.EnvRecordFile, "")
		t.Setenv(config.EnvConfigFile, env.ConfigFile)
		t.Setenv("NO_COLOR", "1")
	}
	return env
}

// Env returns the runtime environment matching this test environment
func (env *TestEnvironment) Env() config.Environment {
	return config.Environment{
		Home:              env.HomeDir,
		ConfigFile:        env.ConfigFile,
		DefaultRecordFile: env.LedgerPath,
		UserRecordFile:    filepath.Join(".outsider", "installed_files"),
		DeclarationFile:   "outsider_files",
		Vars: map[string]string{
			"HOME": env.HomeDir,
			"DEST": env.OutDir,
		},
	}
}

// Unit creates a unit directory under UnitsDir with the given files and
// returns its path. A non-empty declaration is written as outsider_files.
func (env *TestEnvironment) Unit(identity, declaration string, tree FileTree) string {
	env.t.Helper()
	return env.unitIn(env.UnitsDir, identity, declaration, tree)
}

// UserUnit is Unit under the home directory, which makes installs per-user
func (env *TestEnvironment) UserUnit(identity, declaration string, tree FileTree) string {
	env.t.Helper()
	return env.unitIn(filepath.Join(env.HomeDir, ".gem"), identity, declaration, tree)
}

func (env *TestEnvironment) unitIn(base, identity, declaration string, tree FileTree) string {
	env.t.Helper()

	dir := filepath.Join(base, identity)
	if err := env.FS.MkdirAll(dir, 0755); err != nil {
		env.t.Fatalf("Failed to create unit %s: %v", dir, err)
	}
	if declaration != "" {
		tree = mergeTree(tree, FileTree{"outsider_files": declaration})
	}
	CreateFileTree(env.t, env.FS, dir, tree)
	return dir
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it is unreadable
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists in the environment's filesystem
func (env *TestEnvironment) Exists(path string) bool {
	return filesystem.Exists(env.FS, path)
}
