package outsider

// Command descriptions
const (
	MsgRootShort = "Install a package's files outside of its own directory"
	MsgRootLong  = `outsider copies the files a package declares in its outsider_files into
system or per-user locations, and removes them again when the package is
uninstalled.

Several installed versions may declare the same destination. outsider keeps
a ledger of who installed what, in install order: removing the most recent
version puts back the copy from the newest remaining one.`

	MsgInstallShort = "Copy a unit's declared files to their destinations"
	MsgInstallLong  = `Install reads <dir>/outsider_files, copies every declared file whose source
exists and records the copies in the ledger. The first copy error aborts the
install.`
	MsgInstallExample = `  outsider install /var/lib/gems/3.0.0/gems/app-1.2.0
  outsider install ~/.gem/ruby/3.0.0/gems/app-1.2.0 --identity app-1.2.0`

	MsgUninstallShort = "Remove a unit's files, restoring older copies"
	MsgUninstallLong  = `Uninstall releases every file the unit claimed. A file is only removed when
the unit installed it last; the newest remaining claimant's copy is then put
back. A missing or invalid ledger is not an error.`

	MsgResolveShort = "Show where a unit's files would be installed"
	MsgLedgerShort  = "Show the ownership ledger"
	MsgLedgerLong   = `Ledger lists every destination with the units claiming it, oldest first.
The claim marked with * is the one whose file is on disk.`
	MsgDefaultsShort = "Print the built-in configuration defaults"
	MsgDefaultsLong  = `Defaults prints the embedded TOML defaults. OUTSIDER_RECORD_FILE and
OUTSIDER_CONFIG_FILE override the matching keys.`
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)

// Flag descriptions
const (
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagLedger   = "Ledger file to use instead of the resolved location"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagIdentity = "Unit identity (default: the directory name)"
	MsgFlagUser     = "Show the per-user ledger"
)

// Status and error messages
const (
	MsgNothingInstalled   = "No files installed for %s\n"
	MsgNothingToRemove    = "No files recorded for %s\n"
	MsgLedgerNotUpdated   = "ledger %s was not updated: %v"
	MsgDeclarationIgnored = "ignoring invalid declaration: %v"
	MsgErrLoadEnv         = "failed to read environment: %w"
	MsgErrInstall         = "failed to install %s: %w"
	MsgErrLedger          = "failed to read ledger: %w"
	MsgVersionFormat      = "outsider version %s\n  commit: %s\n  built:  %s\n"
)
