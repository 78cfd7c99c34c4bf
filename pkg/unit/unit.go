// Package unit describes an installed package as outsider sees it: an
// identity, the directory holding its files and the files it declares.
package unit

import (
	"path/filepath"

	"github.com/arthur-debert/outsider/pkg/declaration"
	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/types"
)

// Unit is an installable package instance
type Unit struct {
	// Identity is the name+version string the ledger keys ownership by
	Identity string
	// Dir is the absolute directory the unit was installed to
	Dir string
	// Entries are the declared files, in declaration order
	Entries []types.Entry
}

// New describes the unit at dir without reading its declaration. When
// identity is empty the directory's base name is used, which is how package
// managers name versioned install dirs (app-1.2.0).
func New(dir, identity string) (*Unit, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrUnitInvalid, "unit directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUnitInvalid, "failed to resolve unit directory %s", dir)
	}

	if identity == "" {
		identity = filepath.Base(abs)
	}
	if identity == "" || identity == string(filepath.Separator) || identity == "." {
		return nil, errors.Newf(errors.ErrUnitInvalid, "cannot derive a unit identity from %s", dir)
	}

	return &Unit{Identity: identity, Dir: abs}, nil
}

// Load is New plus the entries of the declaration file. A missing
// declaration file gives a unit with no entries.
func Load(fsys types.FS, dir, identity, declarationFile string) (*Unit, error) {
	u, err := New(dir, identity)
	if err != nil {
		return nil, err
	}

	if declarationFile == "" {
		declarationFile = declaration.DefaultFileName
	}
	u.Entries, err = declaration.Load(fsys, filepath.Join(u.Dir, declarationFile))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SourcePath returns the absolute path of a declared source file
func (u *Unit) SourcePath(rel string) string {
	return filepath.Join(u.Dir, rel)
}
