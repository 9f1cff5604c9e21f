package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/config"
)

var configJSON bool

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Print the config as JSON")
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or change user settings",
	Long: `Print the effective configuration, including defaults and environment
overrides. The config is stored at ~/` + branding.HomeDir() + `/config.yaml unless
--config-file or $` + branding.EnvVar("CONFIG") + ` points elsewhere.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigFile)
		if err != nil {
			return err
		}
		return cfg.Dump(cmd.OutOrStdout(), configJSON)
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set a configuration value",
	Example: "  new config set plugins.global.author \"Jane Doe\"",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigFile)
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Get(args[0]))
		return nil
	},
}
