package ledger

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/types"
	"gopkg.in/yaml.v3"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Load reads the ledger at path. A missing file is an empty ledger. Content
// that is not a ledger yields a *CorruptionError.
func Load(fsys types.FS, path string) (Ledger, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrLedgerRead, "failed to read ledger %s", path).
			WithDetail("path", path)
	}
	return Parse(path, data)
}

// Parse decodes ledger content; file is only used in errors
func Parse(file string, data []byte) (Ledger, error) {
	l := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return l, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptionError{File: file, Reason: ReasonUnparseable, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return l, nil
	}

	shapeErr := func(n *yaml.Node, format string, args ...interface{}) error {
		return &CorruptionError{
			File:   file,
			Reason: ReasonWrongShape,
			Detail: fmt.Sprintf("line %d: ", n.Line) + fmt.Sprintf(format, args...),
		}
	}

	root := resolve(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return l, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, shapeErr(root, "top level must be a mapping of destination to claims")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := resolve(root.Content[i]), resolve(root.Content[i+1])
		if !isString(key) {
			return nil, shapeErr(key, "destination must be a string")
		}
		if value.Kind != yaml.SequenceNode {
			return nil, shapeErr(value, "claims of %s must be a list", key.Value)
		}

		claims := make([]Claim, 0, len(value.Content))
		for _, item := range value.Content {
			claim, err := parseClaim(resolve(item))
			if err != nil {
				return nil, shapeErr(item, "%s: %s", key.Value, err)
			}
			claims = append(claims, claim)
		}
		l[key.Value] = append(l[key.Value], claims...)
	}

	l.prune()
	return l, nil
}

// parseClaim reads one claim. Ledgers written by the Ruby plugin key claims
// with the symbols :gem and :origin; both are read as unit and origin.
func parseClaim(n *yaml.Node) (Claim, error) {
	if n.Kind != yaml.MappingNode {
		return Claim{}, fmt.Errorf("claim is not a mapping")
	}

	var claim Claim
	var hasUnit, hasOrigin bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := resolve(n.Content[i]), resolve(n.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return Claim{}, fmt.Errorf("claim field name is not a string")
		}
		switch key.Value {
		case "unit", ":gem", "gem":
			if !isString(value) {
				return Claim{}, fmt.Errorf("claim unit is not a string")
			}
			claim.Unit, hasUnit = value.Value, true
		case "origin", ":origin":
			if !isString(value) {
				return Claim{}, fmt.Errorf("claim origin is not a string")
			}
			claim.Origin, hasOrigin = value.Value, true
		}
	}

	if !hasUnit || !hasOrigin {
		return Claim{}, fmt.Errorf("claim needs both unit and origin")
	}
	return claim, nil
}

// Marshal encodes a ledger. Destinations are sorted; claim order is kept.
func Marshal(l Ledger) ([]byte, error) {
	out := make(map[string][]Claim, len(l))
	for dest, claims := range l {
		if len(claims) > 0 {
			out[dest] = claims
		}
	}
	if len(out) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the whole ledger to path, creating parent directories. The
// content goes to a temporary file first and is renamed over path, so a
// crash never leaves a half-written ledger.
func Save(fsys types.FS, path string, l Ledger) error {
	data, err := Marshal(l)
	if err != nil {
		return errors.Wrap(err, errors.ErrLedgerWrite, "failed to encode ledger")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create ledger directory for %s", path)
	}

	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, filePerm); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerWrite, "failed to write %s", tmp)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrapf(err, errors.ErrLedgerWrite, "failed to replace ledger %s", path)
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!str"
}
