// Command repak repacks localized resource paks for a list of locales.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/repak/config"
	"github.com/minios-linux/repak/discover"
	"github.com/minios-linux/repak/i18n"
	"github.com/minios-linux/repak/langmeta"
	"github.com/minios-linux/repak/logging"
	"github.com/minios-linux/repak/pak"
	"github.com/minios-linux/repak/repack"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// mergerFactory builds the Merger used in repack mode.
type mergerFactory func(opts config.Options, logger zerolog.Logger) (repack.Merger, error)

func defaultMerger(opts config.Options, logger zerolog.Logger) (repack.Merger, error) {
	return repack.NewPakMerger(opts, logger)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd(newMerger mergerFactory) *cobra.Command {
	opts := config.Defaults()
	var configPath string

	root := &cobra.Command{
		Use:   "repak [options] locale [locale ...]",
		Short: "Repack localized resource paks for a list of locales",
		Long: `repak merges the per-component resource paks of each locale into one pak.

For every locale, five paks from the shared intermediate directory are merged:

  components/accessibility/accessibility_strings_LOCALE.pak
  webos/network_error_resources/network_error_strings_LOCALE.pak
  content/app/strings/content_strings_LOCALE.pak
  ui/strings/ui_strings_LOCALE.pak
  ui/strings/app_locale_settings_LOCALE.pak

The result is written to INT_DIR/webos/repack/LOCALE.pak, except for the
fake-bidi test locale which goes to GRIT_DIR/fake-bidi.pak.

With -i or -o only the quoted input or output file list is printed, so the
build system can track dependencies without repacking.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, configPath, args, newMerger)
		},
	}

	root.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(c, err.Error())
	})

	f := root.Flags()
	f.BoolVarP(&opts.PrintInputs, "inputs", "i", false, "Print the expected input file list, then exit")
	f.BoolVarP(&opts.PrintOutputs, "outputs", "o", false, "Print the expected output file list, then exit")
	f.StringVarP(&opts.GritDir, "grit-dir", "g", "", "GRIT build files output directory")
	f.StringVarP(&opts.IntDir, "int-dir", "x", "", "Intermediate build files output directory")
	f.StringVarP(&opts.ShareIntDir, "share-int-dir", "s", "", "Shared intermediate build files output directory")
	f.StringVarP(&opts.OS, "os", "p", opts.OS, "The target OS (e.g. mac, linux, win)")
	f.IntVar(&opts.PakVersion, "pak-version", opts.PakVersion, "Output pak format version (4 or 5)")
	f.StringVar(&opts.Whitelist, "whitelist", "", "File of resource ids to keep, one per line")
	f.BoolVar(&opts.SuppressRemovedKeys, "suppress-removed", false, "Do not log ids dropped by the whitelist")
	f.StringVar(&opts.LockFile, "lock", "", "Stamp file for incremental repacking")
	f.StringVar(&configPath, "config", "", "Config file (default ./"+config.RepakFileName+")")
	root.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	root.AddCommand(
		newInspectCmd(),
		newLocalesCmd(),
		newVersionCmd(),
	)

	return root
}

// newUsageError reports bad command-line input for cmd.
func newUsageError(cmd *cobra.Command, msg string) *config.UsageError {
	ue := &config.UsageError{Msg: msg}
	if cmd.HasParent() {
		ue.Usage = cmd.UseLine()
	}
	return ue
}

// usageArgs turns positional argument errors into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return newUsageError(cmd, err.Error())
		}
		return nil
	}
}

// wordSepNormalizeFunc accepts --grit_dir for --grit-dir.
func wordSepNormalizeFunc(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func runRoot(cmd *cobra.Command, opts config.Options, configPath string, locales []string, newMerger mergerFactory) error {
	if opts.OS == "" {
		opts.OS = config.Defaults().OS
	}

	// Validated before any file is touched, config file included.
	if err := opts.Validate(locales); err != nil {
		return err
	}

	dirs := opts.Dirs()
	switch {
	case opts.PrintInputs:
		fmt.Fprintln(cmd.OutOrStdout(), dirs.ListInputs(locales))
		return nil
	case opts.PrintOutputs:
		fmt.Fprintln(cmd.OutOrStdout(), dirs.ListOutputs(locales))
		return nil
	}

	rf, err := config.FindRepakFile(configPath, ".")
	if err != nil {
		return err
	}
	opts = rf.Apply(opts, cmd.Flags().Changed)
	if err := opts.Validate(locales); err != nil {
		return err
	}

	logging.SetupLogger(cmd.ErrOrStderr(), opts.Verbosity)
	logger := logging.GetLogger("repack")
	if rf != nil {
		logger.Debug().Str("config", rf.Path()).Msg("Loaded config file")
	}

	merger, err := newMerger(opts, logger)
	if err != nil {
		return err
	}

	done := logging.LogOperationStart(logger, "repack")
	res, err := repack.Run(cmd.Context(), opts, locales, merger, logger)
	done()
	if err != nil {
		return err
	}

	logger.Info().
		Int("repacked", len(res.Repacked)).
		Int("skipped", len(res.Skipped)).
		Msg("Repack finished")
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(defaultMerger)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			if usageErr.Usage != "" {
				fmt.Fprintln(stderr, "usage: "+usageErr.Usage)
			} else {
				fmt.Fprintln(stderr, i18n.T("usage: repak [options] locale [locale ...]"))
			}
			fmt.Fprintf(stderr, "repak: error: %s\n", usageErr.Msg)
			return exitUsage
		}
		logger := logging.New(stderr, 0)
		logger.Error().Err(err).Msg("repak failed")
		return exitError
	}
	return exitOK
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "repak version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// inspect (read-only: pak header and resource table)
// ---------------------------------------------------------------------------

func newInspectCmd() *cobra.Command {
	var listIDs bool

	cmd := &cobra.Command{
		Use:   "inspect FILE.pak [FILE.pak ...]",
		Short: "Show format, encoding and resources of pak files",
		Long: `Decode pak files and print their format version, text encoding and
resource count. With --ids every resource id is listed with its size.
Does not modify any files.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args, listIDs)
		},
	}

	cmd.Flags().BoolVar(&listIDs, "ids", false, "List resource ids and sizes")

	return cmd
}

func runInspect(out io.Writer, files []string, listIDs bool) error {
	for i, file := range files {
		dp, err := pak.ReadFile(file)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, file)
		fmt.Fprintln(out, "  "+i18n.Tf("Version:   %d", dp.Version))
		fmt.Fprintln(out, "  "+i18n.Tf("Encoding:  %s", dp.Encoding))
		fmt.Fprintln(out, "  "+i18n.Tf("Resources: %d", len(dp.Resources)))

		if listIDs {
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, id := range dp.IDs() {
				fmt.Fprintf(tw, "  %d\t%d\t\n", id, len(dp.Resources[id]))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// locales (read-only: locales present in the shared intermediate dir)
// ---------------------------------------------------------------------------

func newLocalesCmd() *cobra.Command {
	var shareIntDir string

	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List locales built into the shared intermediate directory",
		Long: `List every locale that has a ui_strings pak under the shared intermediate
directory, with its display name and text direction. The plain locale list
printed by --plain can be passed straight back to repak.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shareIntDir == "" {
				return newUsageError(cmd, i18n.T(`Please specify "-s".`))
			}
			plain, _ := cmd.Flags().GetBool("plain")
			return runLocales(cmd.OutOrStdout(), cmd.ErrOrStderr(), shareIntDir, plain)
		},
	}

	cmd.Flags().StringVarP(&shareIntDir, "share-int-dir", "s", "", "Shared intermediate build files output directory")
	cmd.Flags().Bool("plain", false, "Print locale codes only, space-separated")

	return cmd
}

func runLocales(out, errOut io.Writer, shareIntDir string, plain bool) error {
	locales, err := discover.Locales(shareIntDir)
	if err != nil {
		return err
	}
	if len(locales) == 0 {
		fmt.Fprintln(errOut, i18n.Tf("No locales found in %s", shareIntDir))
		return nil
	}

	if plain {
		for i, l := range locales {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, l)
		}
		fmt.Fprintln(out)
		return nil
	}

	fmt.Fprintf(errOut, i18n.N("Found %d locale", "Found %d locales", len(locales))+"\n", len(locales))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, l := range locales {
		meta := langmeta.Resolve(l)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l, meta.Name, meta.Direction())
	}
	return tw.Flush()
}
