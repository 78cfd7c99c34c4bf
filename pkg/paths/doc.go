// Package paths decides where outsider keeps its ledger and whether a unit is
// being installed globally or for the invoking user only.
//
// # Ledger location
//
// Per-user installs (the unit directory is inside $HOME) always use
// $HOME/.outsider/installed_files. Global installs use, in order:
//
//   - OUTSIDER_RECORD_FILE, when set and non-empty
//   - the content of the system config file (/etc/outsider.conf, or
//     OUTSIDER_CONFIG_FILE), when it exists and is not blank
//   - /var/lib/outsider/installed_files
package paths
