// Package installer copies a unit's declared files to their destinations
// and reverses that on removal.
//
// Install resolves each declared destination, copies the source file there
// (creating missing directories) and records the copies as claims in the
// ownership ledger. Uninstall releases the unit's claims; a destination is
// only touched when the unit was its most recent claimant, in which case the
// file is deleted and the newest remaining claimant whose origin still
// exists is copied back in its place.
//
// In per-user mode (the unit lives under the invoking user's home) system
// destinations such as /usr/share/... are rewritten to live under the home
// directory.
package installer
