package outsider

import (
	"fmt"

	"github.com/arthur-debert/outsider/internal/version"
	"github.com/arthur-debert/outsider/pkg/config"
	"github.com/arthur-debert/outsider/pkg/errors"
	"github.com/arthur-debert/outsider/pkg/filesystem"
	"github.com/arthur-debert/outsider/pkg/installer"
	"github.com/arthur-debert/outsider/pkg/ledger"
	"github.com/arthur-debert/outsider/pkg/logging"
	"github.com/arthur-debert/outsider/pkg/output"
	"github.com/arthur-debert/outsider/pkg/paths"
	"github.com/arthur-debert/outsider/pkg/unit"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	ledgerPath string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "outsider",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.ledgerPath, "ledger", "", MsgFlagLedger)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newUninstallCmd(opts))
	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newLedgerCmd(opts))
	rootCmd.AddCommand(newDefaultsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newPrinter(cmd *cobra.Command, opts *globalOptions) (*output.Printer, error) {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}
	return output.New(cmd.OutOrStdout(), format), nil
}

// session is what a unit command needs: the loaded unit and its installer
type session struct {
	printer   *output.Printer
	unit      *unit.Unit
	installer *installer.Installer
}

// openUnit loads the environment and the unit at dir. With lenient set a
// malformed declaration is reported and the unit is used without entries,
// which is all uninstall needs.
func openUnit(cmd *cobra.Command, opts *globalOptions, dir, identity string, lenient bool) (*session, error) {
	printer, err := newPrinter(cmd, opts)
	if err != nil {
		return nil, err
	}

	env, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadEnv, err)
	}

	fs := filesystem.NewOS()
	u, err := unit.Load(fs, dir, identity, env.DeclarationFile)
	if err != nil {
		if !lenient || !errors.IsErrorCode(err, errors.ErrDeclaration) {
			return nil, err
		}
		printer.Warn(MsgDeclarationIgnored, err)
		u, err = unit.New(dir, identity)
		if err != nil {
			return nil, err
		}
	}

	inst, err := installer.New(u, installer.Options{
		FS:         fs,
		Env:        env,
		LedgerPath: opts.ledgerPath,
		Notifier:   printer,
	})
	if err != nil {
		return nil, err
	}

	return &session{printer: printer, unit: u, installer: inst}, nil
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:     "install <dir>",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openUnit(cmd, opts, args[0], identity, false)
			if err != nil {
				return err
			}

			log.Info().
				Str("unit", s.unit.Identity).
				Str("ledger", s.installer.LedgerPath()).
				Bool("user_install", s.installer.UserInstall()).
				Msg("Installing unit")

			placements, err := s.installer.Install()
			if err != nil {
				return fmt.Errorf(MsgErrInstall, s.unit.Identity, err)
			}
			if len(placements) == 0 && s.printer.Format() != output.FormatJSON {
				fmt.Fprintf(cmd.OutOrStdout(), MsgNothingInstalled, s.unit.Identity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", MsgFlagIdentity)
	return cmd
}

func newUninstallCmd(opts *globalOptions) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "uninstall <dir>",
		Short: MsgUninstallShort,
		Long:  MsgUninstallLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openUnit(cmd, opts, args[0], identity, true)
			if err != nil {
				return err
			}

			log.Info().
				Str("unit", s.unit.Identity).
				Str("ledger", s.installer.LedgerPath()).
				Msg("Uninstalling unit")

			removals, err := s.installer.Uninstall()
			if err != nil {
				// the host's removal must go on regardless
				log.Warn().Err(err).Str("ledger", s.installer.LedgerPath()).Msg("Ledger not updated")
				s.printer.Warn(MsgLedgerNotUpdated, s.installer.LedgerPath(), err)
				return nil
			}

			s.printer.Problems(removals)
			if len(removals) == 0 && s.printer.Format() != output.FormatJSON {
				fmt.Fprintf(cmd.OutOrStdout(), MsgNothingToRemove, s.unit.Identity)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", MsgFlagIdentity)
	return cmd
}

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "resolve <dir>",
		Short: MsgResolveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openUnit(cmd, opts, args[0], identity, false)
			if err != nil {
				return err
			}

			plan, err := s.installer.Plan()
			if err != nil {
				return err
			}
			s.printer.Plan(s.unit.Identity, s.installer.UserInstall(), plan)
			return nil
		},
	}

	cmd.Flags().StringVar(&identity, "identity", "", MsgFlagIdentity)
	return cmd
}

func newLedgerCmd(opts *globalOptions) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: MsgLedgerShort,
		Long:  MsgLedgerLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := newPrinter(cmd, opts)
			if err != nil {
				return err
			}

			fs := filesystem.NewOS()
			path, source := opts.ledgerPath, paths.SourceExplicit
			if path == "" {
				env, err := config.Load()
				if err != nil {
					return fmt.Errorf(MsgErrLoadEnv, err)
				}
				path, source, err = paths.LedgerLocation(fs, env, user)
				if err != nil {
					return err
				}
			}
			log.Debug().Str("ledger", path).Str("source", source).Msg("Reading ledger")

			l, err := ledger.NewStore(fs, path).Claims()
			if err != nil {
				return fmt.Errorf(MsgErrLedger, err)
			}
			printer.Ledger(path, l)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, MsgFlagUser)
	return cmd
}

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: MsgDefaultsShort,
		Long:  MsgDefaultsLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
