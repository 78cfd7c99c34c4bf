// Package template evaluates the expressions embedded in declared
// destination paths.
//
// Paths use Go text/template syntax. The data and helpers available are:
//
//	{{ .Home }}           the invoking user's home directory
//	{{ .Env.NAME }}       an environment variable ("" when unset)
//	{{ env "NAME" }}      same as .Env.NAME
//	{{ home }}            the invoking user's home directory
//	{{ home "alice" }}    another user's home directory
//
// A path without "{{" is returned untouched.
package template
