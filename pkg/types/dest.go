package types

import "fmt"

// DestKind tags the two shapes a destination specification can take
type DestKind int

const (
	// DestSimple is a single templated path used in both install modes
	DestSimple DestKind = iota
	// DestPerMode carries separate paths for global and per-user installs
	DestPerMode
)

// String returns the name used in logs and the resolve command
func (k DestKind) String() string {
	switch k {
	case DestSimple:
		return "simple"
	case DestPerMode:
		return "per-mode"
	default:
		return fmt.Sprintf("DestKind(%d)", int(k))
	}
}

// DestSpec is where a declared file should be copied to. Paths may contain
// template expressions and are resolved by the installer.
type DestSpec struct {
	Kind   DestKind
	Simple string
	Global string
	User   string
}

// SimpleDest creates a destination used for both install modes
func SimpleDest(path string) DestSpec {
	return DestSpec{Kind: DestSimple, Simple: path}
}

// PerModeDest creates a destination with a global and a per-user path
func PerModeDest(global, user string) DestSpec {
	return DestSpec{Kind: DestPerMode, Global: global, User: user}
}

// Path returns the unresolved path for the given install mode
func (d DestSpec) Path(userInstall bool) string {
	if d.Kind == DestPerMode {
		if userInstall {
			return d.User
		}
		return d.Global
	}
	return d.Simple
}

// String renders the spec the way it appears in a declaration file
func (d DestSpec) String() string {
	if d.Kind == DestPerMode {
		return fmt.Sprintf("[%s, %s]", d.Global, d.User)
	}
	return d.Simple
}

// Entry is one line of a unit's declaration: a file relative to the unit
// directory and where it goes.
type Entry struct {
	Source string
	Dest   DestSpec
}
