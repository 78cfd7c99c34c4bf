// Package testutil sets up isolated environments for outsider tests: a
// home directory, a ledger location, unit directories with declarations,
// and the process environment pointing at them.
package testutil
