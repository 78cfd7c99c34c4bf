package installer

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/paths"
	"github.com/arthur-debert/outsider/pkg/template"
	"github.com/arthur-debert/outsider/pkg/types"
)

// userPrefix maps a system hierarchy root to a location under home
type userPrefix struct {
	prefix string
	target string
}

// userPrefixes is checked in order; the first match wins. Paths matching
// none of them are placed under home verbatim.
var userPrefixes = []userPrefix{
	{"/bin/", "bin"},
	{"/sbin/", "bin"},
	{"/usr/sbin/", "bin"},
	{"/usr/local/share/", filepath.Join(".local", "share")},
	{"/usr/share/", filepath.Join(".local", "share")},
	{"/usr/local/", ""},
	{"/usr/", ""},
	{"/var/", ""},
	{"/opt/", ""},
	{"/etc/", ""},
	{"~/", ""},
}

// Destination resolves where entry is copied to for this installer's mode
func (i *Installer) Destination(entry types.Entry) (string, error) {
	raw := entry.Dest.Path(i.userInstall)
	if raw == "" {
		return "", errors.Newf(errors.ErrDestination, "empty destination for %s", entry.Source).
			WithDetail("source", entry.Source)
	}

	path, err := template.Evaluate(raw, i.tmpl)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.Newf(errors.ErrDestination, "destination %q for %s evaluates to an empty path", raw, entry.Source).
			WithDetail("source", entry.Source)
	}

	dirStyle := strings.HasSuffix(path, "/")

	switch {
	case i.userInstall && entry.Dest.Kind == types.DestPerMode:
		path = userRelative(path, i.env.Home)
	case i.userInstall:
		path = RewriteForUser(path, i.env.Home)
	case !filepath.IsAbs(path):
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrDestination, "failed to resolve destination %s", path)
		}
		path = abs
	}

	if dirStyle {
		path = filepath.Join(path, filepath.Base(entry.Source))
	}
	return path, nil
}

// RewriteForUser moves a system path under home using the per-user prefix
// table: /usr/share/app/icon.png becomes <home>/.local/share/app/icon.png.
func RewriteForUser(path, home string) string {
	for _, p := range userPrefixes {
		if strings.HasPrefix(path, p.prefix) {
			return filepath.Join(home, p.target, strings.TrimPrefix(path, p.prefix))
		}
	}
	return filepath.Join(home, path)
}

// userRelative anchors a per-user destination at home unless it is absolute
func userRelative(path, home string) string {
	path = paths.ExpandHome(path, home)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}
