// cmd/outsider/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (t.TempDir), environment variables
// PURPOSE: Test the CLI commands end to end through cobra

package outsider

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/outsider/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	*testutil.TestEnvironment
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{testutil.NewTestEnvironment(t, testutil.EnvIsolated)}
}

// makeUnit writes a unit directory with a declaration and files
func (e *cliEnv) makeUnit(t *testing.T, identity, declaration string, files map[string]string) string {
	t.Helper()
	tree := testutil.FileTree{"outsider_files": declaration}
	for name, content := range files {
		tree[name] = content
	}
	return e.Unit(identity, "", tree)
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--ledger", e.LedgerPath, "--format", "text"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestInstallUninstallCommands(t *testing.T) {
	e := setupCLI(t)
	dest := filepath.Join(e.OutDir, "app.conf")
	decl := "app.conf: " + dest + "\n"
	v1 := e.makeUnit(t, "app-1.0", decl, map[string]string{"app.conf": "v1"})
	v2 := e.makeUnit(t, "app-2.0", decl, map[string]string{"app.conf": "v2"})

	out, err := e.run(t, "install", v1)
	require.NoError(t, err)
	assert.Equal(t, "Installed app.conf to "+dest+"\n", out)

	_, err = e.run(t, "install", v2)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	out, err = e.run(t, "uninstall", v2)
	require.NoError(t, err)
	assert.Equal(t, "Removed "+dest+"\nRestored "+dest+" from app-1.0\n", out)
	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	out, err = e.run(t, "ledger")
	require.NoError(t, err)
	assert.Contains(t, out, "* app-1.0 "+filepath.Join(v1, "app.conf"))
	assert.NotContains(t, out, "app-2.0")

	_, err = e.run(t, "uninstall", v1)
	require.NoError(t, err)
	assert.NoFileExists(t, dest)
}

func TestInstallCommand_IdentityFlag(t *testing.T) {
	e := setupCLI(t)
	dest := filepath.Join(e.OutDir, "f")
	dir := e.makeUnit(t, "checkout", "f: "+dest+"\n", map[string]string{"f": "x"})

	_, err := e.run(t, "install", dir, "--identity", "app-3.1")
	require.NoError(t, err)

	out, err := e.run(t, "--format", "json", "ledger")
	require.NoError(t, err)

	var entry struct {
		Dest   string `json:"dest"`
		Claims []struct {
			Unit string `json:"unit"`
		} `json:"claims"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.Equal(t, dest, entry.Dest)
	require.Len(t, entry.Claims, 1)
	assert.Equal(t, "app-3.1", entry.Claims[0].Unit)
}

func TestInstallCommand_InvalidDeclaration(t *testing.T) {
	e := setupCLI(t)
	dir := e.makeUnit(t, "bad-1.0", "- just\n- a list\n", nil)

	_, err := e.run(t, "install", dir)
	require.Error(t, err)
}

func TestUninstallCommand_NeverFailsOnLedger(t *testing.T) {
	e := setupCLI(t)
	dir := e.makeUnit(t, "app-1.0", "f: /tmp/f\n", nil)

	out, err := e.run(t, "uninstall", dir)
	require.NoError(t, err)
	assert.Equal(t, "No files recorded for app-1.0\n", out)

	require.NoError(t, os.MkdirAll(filepath.Dir(e.LedgerPath), 0755))
	require.NoError(t, os.WriteFile(e.LedgerPath, []byte("just a string"), 0644))
	_, err = e.run(t, "uninstall", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(e.LedgerPath)
	require.NoError(t, err)
	assert.Equal(t, "just a string", string(data))
}

func TestUninstallCommand_InvalidDeclarationStillReleases(t *testing.T) {
	e := setupCLI(t)
	dest := filepath.Join(e.OutDir, "f")
	dir := e.makeUnit(t, "app-1.0", "f: "+dest+"\n", map[string]string{"f": "x"})

	_, err := e.run(t, "install", dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outsider_files"), []byte("[broken"), 0644))

	out, err := e.run(t, "uninstall", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: ignoring invalid declaration")
	assert.Contains(t, out, "Removed "+dest)
	assert.NoFileExists(t, dest)
}

func TestResolveCommand(t *testing.T) {
	e := setupCLI(t)
	dest := filepath.Join(e.OutDir, "share") + "/"
	dir := e.makeUnit(t, "app-1.0", "icon.png: "+dest+"\nmissing.txt: /opt/app/missing.txt\n",
		map[string]string{"icon.png": "png"})

	out, err := e.run(t, "resolve", dir)
	require.NoError(t, err)
	assert.Equal(t,
		"app-1.0 (global install)\n"+
			"  icon.png -> "+filepath.Join(e.OutDir, "share", "icon.png")+"\n"+
			"  missing.txt -> /opt/app/missing.txt (missing, skipped)\n",
		out)
	assert.NoDirExists(t, e.OutDir)
	assert.NoFileExists(t, e.LedgerPath)
}

func TestLedgerCommand_Corrupt(t *testing.T) {
	e := setupCLI(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.LedgerPath), 0755))
	require.NoError(t, os.WriteFile(e.LedgerPath, []byte("not: [valid"), 0644))

	_, err := e.run(t, "ledger")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not parseable")
}

func TestVersionCommand(t *testing.T) {
	e := setupCLI(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "outsider version "))
}

func TestDefaultsCommand(t *testing.T) {
	e := setupCLI(t)
	out, err := e.run(t, "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, `default_record_file = "/var/lib/outsider/installed_files"`)
}

func TestRootCommand_NoSubcommand(t *testing.T) {
	setupCLI(t)
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.Execute())
}

func TestRootCommand_BadFormat(t *testing.T) {
	e := setupCLI(t)
	dir := e.makeUnit(t, "app-1.0", "", nil)
	_, err := e.run(t, "--format", "xml", "resolve", dir)
	require.Error(t, err)
}
