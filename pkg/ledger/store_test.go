// pkg/ledger/store_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: afero MemMapFs, real filesystem for the flock locker
// PURPOSE: Test locked read-modify-write cycles, corruption recovery and release semantics

package ledger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerPath = "/var/lib/outsider/installed_files"

func memoryStore(t *testing.T) *ledger.Store {
	t.Helper()
	return ledger.NewStore(filesystem.NewMemory(), ledgerPath, ledger.WithLocker(ledger.NewNopLocker))
}

func TestStore_RecordClaimsCreatesLedger(t *testing.T) {
	store := memoryStore(t)

	err := store.RecordClaims("app-1.0", []ledger.Placement{
		{Dest: "/usr/bin/app", Origin: "/gems/app-1.0/bin/app"},
		{Dest: "/etc/app.conf", Origin: "/gems/app-1.0/app.conf"},
	})
	require.NoError(t, err)

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, ledger.Ledger{
		"/usr/bin/app":  {{Unit: "app-1.0", Origin: "/gems/app-1.0/bin/app"}},
		"/etc/app.conf": {{Unit: "app-1.0", Origin: "/gems/app-1.0/app.conf"}},
	}, l)
}

func TestStore_ReinstallMovesClaimToEnd(t *testing.T) {
	store := memoryStore(t)

	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{{Dest: "/d/x", Origin: "/a-1/x"}}))
	require.NoError(t, store.RecordClaims("a-2", []ledger.Placement{{Dest: "/d/x", Origin: "/a-2/x"}}))
	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{{Dest: "/d/x", Origin: "/a-1/x"}}))

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, []ledger.Claim{
		{Unit: "a-2", Origin: "/a-2/x"},
		{Unit: "a-1", Origin: "/a-1/x"},
	}, l["/d/x"])
}

func TestStore_RecordClaimsRecoversFromCorruption(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(filepath.Dir(ledgerPath), 0755))
	require.NoError(t, fs.WriteFile(ledgerPath, []byte("- not\n- a ledger\n"), 0644))
	require.NoError(t, fs.WriteFile(ledgerPath+"-1", []byte("older backup"), 0644))

	store := ledger.NewStore(fs, ledgerPath, ledger.WithLocker(ledger.NewNopLocker))
	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{{Dest: "/d/x", Origin: "/a-1/x"}}))

	backup, err := fs.ReadFile(ledgerPath + "-2")
	require.NoError(t, err)
	assert.Equal(t, "- not\n- a ledger\n", string(backup))

	older, err := fs.ReadFile(ledgerPath + "-1")
	require.NoError(t, err)
	assert.Equal(t, "older backup", string(older))

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, ledger.Ledger{"/d/x": {{Unit: "a-1", Origin: "/a-1/x"}}}, l)
}

func TestStore_RecordClaimsKeepsRubyLedger(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(filepath.Dir(ledgerPath), 0755))
	rubyDump := "---\n/tmp/d:\n- :gem: app-1.0\n  :origin: /gems/app-1.0/d\n"
	require.NoError(t, fs.WriteFile(ledgerPath, []byte(rubyDump), 0644))

	store := ledger.NewStore(fs, ledgerPath, ledger.WithLocker(ledger.NewNopLocker))
	require.NoError(t, store.RecordClaims("app-1.1", []ledger.Placement{{Dest: "/tmp/d", Origin: "/gems/app-1.1/d"}}))

	assert.False(t, filesystem.Exists(fs, ledgerPath+"-1"))

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, []ledger.Claim{
		{Unit: "app-1.0", Origin: "/gems/app-1.0/d"},
		{Unit: "app-1.1", Origin: "/gems/app-1.1/d"},
	}, l["/tmp/d"])
}

func TestStore_ReleaseClaims(t *testing.T) {
	store := memoryStore(t)
	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{
		{Dest: "/d/x", Origin: "/a-1/x"},
		{Dest: "/d/y", Origin: "/a-1/y"},
	}))
	require.NoError(t, store.RecordClaims("a-2", []ledger.Placement{{Dest: "/d/x", Origin: "/a-2/x"}}))

	releases, err := store.ReleaseClaims("a-2")
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "/d/x", releases[0].Dest)
	assert.True(t, releases[0].WasLast)
	assert.Equal(t, []ledger.Claim{{Unit: "a-1", Origin: "/a-1/x"}}, releases[0].Remaining)

	releases, err = store.ReleaseClaims("a-1")
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Empty(t, releases[0].Remaining)
	assert.Empty(t, releases[1].Remaining)

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Empty(t, l)
}

func TestStore_ReleaseClaimsMissingLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "installed_files")
	store := ledger.NewStore(filesystem.NewOS(), path)

	releases, err := store.ReleaseClaims("a-1")
	require.NoError(t, err)
	assert.Empty(t, releases)

	_, err = os.Stat(filepath.Join(dir, "state"))
	assert.True(t, os.IsNotExist(err), "release must not create the ledger directory")
}

func TestStore_ReleaseClaimsCorruptLedger(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(filepath.Dir(ledgerPath), 0755))
	require.NoError(t, fs.WriteFile(ledgerPath, []byte("{{{"), 0644))

	store := ledger.NewStore(fs, ledgerPath, ledger.WithLocker(ledger.NewNopLocker))
	releases, err := store.ReleaseClaims("a-1")
	require.NoError(t, err)
	assert.Empty(t, releases)

	data, err := fs.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Equal(t, "{{{", string(data))

	_, err = fs.Stat(ledgerPath + "-1")
	assert.Error(t, err, "release never renames a corrupt ledger")
}

func TestStore_ReleaseUnknownUnitLeavesFile(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(filepath.Dir(ledgerPath), 0755))
	original := "/d/x:\n- unit: a-1\n  origin: /a-1/x\n"
	require.NoError(t, fs.WriteFile(ledgerPath, []byte(original), 0644))

	store := ledger.NewStore(fs, ledgerPath, ledger.WithLocker(ledger.NewNopLocker))
	releases, err := store.ReleaseClaims("b-1")
	require.NoError(t, err)
	assert.Empty(t, releases)

	data, err := fs.ReadFile(ledgerPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestStore_FileLocker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "installed_files")
	store := ledger.NewStore(filesystem.NewOS(), path)

	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{{Dest: "/d/x", Origin: "/a-1/x"}}))
	require.NoError(t, store.RecordClaims("a-2", []ledger.Placement{{Dest: "/d/x", Origin: "/a-2/x"}}))

	_, err := os.Stat(path + ".lock")
	assert.NoError(t, err)

	l, err := store.Claims()
	require.NoError(t, err)
	assert.Len(t, l["/d/x"], 2)
	assert.Equal(t, path, store.Path())
}

type countingLocker struct {
	locks, unlocks *int
}

func (c countingLocker) Lock() error   { *c.locks++; return nil }
func (c countingLocker) Unlock() error { *c.unlocks++; return nil }

func TestStore_HoldsLockPerCycle(t *testing.T) {
	var locks, unlocks int
	factory := func(string) ledger.Locker { return countingLocker{locks: &locks, unlocks: &unlocks} }

	fs := filesystem.NewMemory()
	store := ledger.NewStore(fs, ledgerPath, ledger.WithLocker(factory))

	require.NoError(t, store.RecordClaims("a-1", []ledger.Placement{{Dest: "/d/x", Origin: "/a-1/x"}}))
	_, err := store.ReleaseClaims("a-1")
	require.NoError(t, err)

	assert.Equal(t, 2, locks)
	assert.Equal(t, 2, unlocks)
}
