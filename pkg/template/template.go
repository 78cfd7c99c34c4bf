package template

import (
	"bytes"
	"os/user"
	"strings"
	"text/template"

	"github.com/arthur-debert/outsider/pkg/config"
	"github.com/arthur-debert/outsider/pkg/errors"
)

// HomeLookup returns the home directory of a named user
type HomeLookup func(username string) (string, error)

// Context is what a destination template is evaluated against
type Context struct {
	Home   string
	Env    map[string]string
	Lookup HomeLookup
}

// NewContext builds a template context from the runtime environment, looking
// other users up in the system user database.
func NewContext(env config.Environment) Context {
	return Context{
		Home:   env.Home,
		Env:    env.Vars,
		Lookup: SystemHomeLookup,
	}
}

// SystemHomeLookup resolves a user's home through os/user
func SystemHomeLookup(username string) (string, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// Evaluate renders text against ctx
func Evaluate(text string, ctx Context) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("destination").
		Option("missingkey=zero").
		Funcs(funcs(ctx)).
		Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplate, "invalid template %q", text)
	}

	data := struct {
		Home string
		Env  map[string]string
	}{
		Home: ctx.Home,
		Env:  ctx.Env,
	}
	if data.Env == nil {
		data.Env = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplate, "failed to evaluate %q", text)
	}
	return buf.String(), nil
}

func funcs(ctx Context) template.FuncMap {
	return template.FuncMap{
		"env": func(name string) string {
			return ctx.Env[name]
		},
		"home": func(users ...string) (string, error) {
			if len(users) == 0 || users[0] == "" {
				return ctx.Home, nil
			}
			if ctx.Lookup == nil {
				return "", errors.Newf(errors.ErrTemplate, "cannot look up home of %s", users[0])
			}
			return ctx.Lookup(users[0])
		},
	}
}
