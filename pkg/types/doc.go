// Package types defines the core types and interfaces shared across outsider:
// the FS abstraction used by the ledger and the installer, and the
// destination specification attached to every declared file.
package types
