// Package declaration loads the file a unit ships to say which of its files
// go where.
//
// The declaration is a YAML mapping from a path relative to the unit
// directory to a destination, either a single path or a two-element list of
// (global path, per-user path):
//
//	share/app.desktop: /usr/share/applications/
//	bin/app: /usr/bin/app
//	etc/app.conf: [/etc/app.conf, .apprc]
//
// Entries keep the order they appear in the file.
package declaration

import (
	"bytes"
	"fmt"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the declaration file looked up in a unit directory
const DefaultFileName = "outsider_files"

// Load reads a declaration file. A missing, unreadable or empty file is an
// empty declaration; malformed content is an ErrDeclaration.
func Load(fsys types.FS, path string) ([]types.Entry, error) {
	logger := logging.GetLogger("declaration")

	data, err := fsys.ReadFile(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("no readable declaration, nothing to install")
		return nil, nil
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDeclaration, "invalid declaration %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Str("path", path).Int("entries", len(entries)).Msg("loaded declaration")
	return entries, nil
}

// Parse decodes declaration content
func Parse(data []byte) ([]types.Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolve(doc.Content[0])
	if isNull(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of source to destination", root.Line)
	}

	entries := make([]types.Entry, 0, len(root.Content)/2)
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := resolve(root.Content[i])
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("line %d: source must be a non-empty path", key.Line)
		}
		if seen[key.Value] {
			return nil, fmt.Errorf("line %d: %s is declared more than once", key.Line, key.Value)
		}
		seen[key.Value] = true

		dest, err := destSpec(resolve(root.Content[i+1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", key.Line, key.Value, err)
		}
		entries = append(entries, types.Entry{Source: key.Value, Dest: dest})
	}

	return entries, nil
}

func destSpec(n *yaml.Node) (types.DestSpec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) || n.Value == "" {
			return types.DestSpec{}, fmt.Errorf("destination is empty")
		}
		return types.SimpleDest(n.Value), nil
	case yaml.SequenceNode:
		if len(n.Content) != 2 {
			return types.DestSpec{}, fmt.Errorf("destination list must have exactly two elements, got %d", len(n.Content))
		}
		global, user := resolve(n.Content[0]), resolve(n.Content[1])
		if global.Kind != yaml.ScalarNode || user.Kind != yaml.ScalarNode || isNull(global) || isNull(user) {
			return types.DestSpec{}, fmt.Errorf("destination list elements must be paths")
		}
		return types.PerModeDest(global.Value, user.Value), nil
	default:
		return types.DestSpec{}, fmt.Errorf("destination must be a path or a [global, user] pair")
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
