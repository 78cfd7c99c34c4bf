// Package ledger records which installed units own which destination files.
//
// Several units (or several versions of one unit) may install the same
// destination path. The ledger keeps, for every destination, the claims of
// the units that installed it, oldest first. When a unit is uninstalled its
// claims are released; if it was the most recent claimant of a destination
// the installer deletes the file and restores the copy of the next most
// recent claimant whose origin still exists.
//
// The ledger is a YAML file rewritten as a whole after every change:
//
//	/usr/share/app/icon.png:
//	  - unit: app-1.0
//	    origin: /gems/app-1.0/icon.png
//	  - unit: app-1.1
//	    origin: /gems/app-1.1/icon.png
//
// Content that does not have exactly this shape is reported as a
// CorruptionError. Writers rename a corrupt file aside (ledger-1,
// ledger-2, ...) and start over; readers on the uninstall path treat it as
// absent.
package ledger
