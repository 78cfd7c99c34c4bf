// Package output renders what outsider did for the operator.
//
// Notifications (installed, removed, restored) and the plan/ledger listings
// share one Printer. In a terminal they are styled with lipgloss; when
// stdout is piped or NO_COLOR is set they are plain text, and with the json
// format each item is one JSON object per line.
package output
