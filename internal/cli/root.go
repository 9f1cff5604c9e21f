package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/plugin"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagConfigFile   string
	flagDebug        bool
	flagDryRun       bool
	flagOverwrite    bool
	flagNoOpen       bool
	flagExecutable   bool
	flagPluginHelp   bool
	flagPluginConfig bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [GENERATOR] [FILENAME...] [-- ARGS...]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates new files from templates. The generator is picked by name,
by the extension of the file name, or falls back to the configured default.
After a file is written the post-processing generators run on it
(chmodx, automakefile, jquerydl, then open).

Generator arguments must follow a bare -- argument.
Use -H with a generator name for generator-specific help.`,
	Example: `  new script.sh
  new bash myscript -- -a -f
  new c foo -- --lib
  new makefile main.c util.c
  new jquerydl -- -l`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runNew,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config-file", "", "Config file (default $NEW_CONFIG or ~/"+branding.HomeDir()+"/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "D", false, "Show debug logging")

	f := rootCmd.Flags()
	f.BoolVarP(&flagDryRun, "dryrun", "d", false, "Don't write anything, print the file instead")
	f.BoolVarP(&flagOverwrite, "overwrite", "O", false, "Overwrite existing files without asking")
	f.BoolVarP(&flagNoOpen, "noopen", "o", false, "Don't open the file after creating it")
	f.BoolVarP(&flagExecutable, "executable", "x", false, "Run chmodx even for generators that normally skip it")
	f.BoolVarP(&flagPluginHelp, "pluginhelp", "H", false, "Show help for the generator and exit")
	f.BoolVarP(&flagPluginConfig, "pluginconfig", "C", false, "Print the config section of the generator and exit")
	rootCmd.MarkFlagsMutuallyExclusive("dryrun", "overwrite")
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit status.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return exitStatus(rootCmd.ErrOrStderr(), rootCmd.ExecuteContext(ctx))
}

// exitStatus reports err on w and maps it to an exit status. Silent aborts
// print nothing, and post-processing failures were already reported by the
// pipeline.
func exitStatus(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if a, ok := plugin.AsAbort(err); ok {
		if !a.Silent() && a.Reason != "" {
			fmt.Fprintln(w, a.Reason)
		}
		return a.Code
	}
	if plugin.GetCode(err) != plugin.EPost {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	if errors.Is(err, plugin.ErrNotFound) {
		fmt.Fprintf(w, "Use '%s list' to list available generators.\n", branding.CLIName())
	}
	return plugin.ExitCode(err)
}
