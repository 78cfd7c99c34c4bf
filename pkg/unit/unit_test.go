// pkg/unit/unit_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: In-memory filesystem
// PURPOSE: Test unit loading, identity derivation and path helpers

package unit_test

import (
	"testing"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/types"
	"github.com/arthur-debert/outsider/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/gems/app-1.0/outsider_files",
		[]byte("bin/app: /usr/bin/app\n"), 0644))

	t.Run("identity_from_directory", func(t *testing.T) {
		u, err := unit.Load(fsys, "/gems/app-1.0", "", "")
		require.NoError(t, err)
		assert.Equal(t, "app-1.0", u.Identity)
		assert.Equal(t, "/gems/app-1.0", u.Dir)
		assert.Equal(t, []types.Entry{{Source: "bin/app", Dest: types.SimpleDest("/usr/bin/app")}}, u.Entries)
	})

	t.Run("explicit_identity", func(t *testing.T) {
		u, err := unit.Load(fsys, "/gems/app-1.0/", "app 1.0", "")
		require.NoError(t, err)
		assert.Equal(t, "app 1.0", u.Identity)
		assert.Equal(t, "/gems/app-1.0", u.Dir)
	})

	t.Run("custom_declaration_file", func(t *testing.T) {
		u, err := unit.Load(fsys, "/gems/app-1.0", "", "other_files")
		require.NoError(t, err)
		assert.Empty(t, u.Entries)
	})

	t.Run("no_declaration", func(t *testing.T) {
		u, err := unit.Load(fsys, "/gems/empty-2.0", "", "")
		require.NoError(t, err)
		assert.Equal(t, "empty-2.0", u.Identity)
		assert.Empty(t, u.Entries)
	})
}

func TestLoad_Errors(t *testing.T) {
	fsys := filesystem.NewMemory()

	_, err := unit.Load(fsys, "", "", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))

	_, err = unit.Load(fsys, "/", "", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))

	require.NoError(t, fsys.WriteFile("/gems/bad-1.0/outsider_files", []byte("- not a mapping"), 0644))
	_, err = unit.Load(fsys, "/gems/bad-1.0", "", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDeclaration))
}

func TestSourcePath(t *testing.T) {
	u := &unit.Unit{Identity: "app-1.0", Dir: "/gems/app-1.0"}

	assert.Equal(t, "/gems/app-1.0/share/icon.png", u.SourcePath("share/icon.png"))
}

func TestNew(t *testing.T) {
	u, err := unit.New("/gems/app-2.0", "")
	require.NoError(t, err)
	assert.Equal(t, &unit.Unit{Identity: "app-2.0", Dir: "/gems/app-2.0"}, u)

	_, err = unit.New("", "x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnitInvalid))
}
