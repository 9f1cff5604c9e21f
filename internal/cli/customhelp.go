package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/config"
)

const customExample = `# Custom generators live under the 'custom' key in the config file.
custom:
  # Main name for this custom generator.
  mit:
    # Other names for this custom generator.
    aliases: [license.mit]
    # File to read the content from when creating the file.
    filename: ~/Documents/licenses/mit.template.txt
    # Short description for the custom generator.
    description: A new MIT license with the year and author set.
    # Whether tags like {author} and {date} are replaced.
    formatted: true
    # Post-processing generators to skip, like chmodx.
    ignore_post: [chmodx]

  # Same thing, using content straight from the config file.
  hello:
    aliases: [helloworld]
    content: Hello world from {author}, on {date}.
    description: A basic content-based custom generator.
    formatted: true
    ignore_post: [chmodx]
`

// customTags describes the built-in format tags, in display order.
var customTags = [][2]string{
	{"author", "Set in config under plugins.global.author."},
	{"date", "Set to today's date."},
	{"email", "Set in config under plugins.global.email."},
	{"version", "Set in config under plugins.global.default_version."},
	{"year", "Set to this year."},
}

var customHelpCmd = &cobra.Command{
	Use:   "custom-help",
	Short: "Show how to define custom generators",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		printCustomHelp(out)

		cfg, err := config.Load(flagConfigFile)
		if err != nil {
			return err
		}
		names := cfg.CustomNames()
		if len(names) == 0 {
			fmt.Fprintf(out, "\nNo custom generators in %s\n", cfg.Path())
			return nil
		}
		fmt.Fprintf(out, "\nCustom generators in %s:\n", cfg.Path())
		for _, name := range names {
			def := cfg.Custom[name]
			source := "content"
			if def.Filename != "" {
				source = def.Filename
			}
			fmt.Fprintf(out, "    %s: %s\n", name, source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(customHelpCmd)
}

func printCustomHelp(w io.Writer) {
	fmt.Fprintf(w, "Custom generator config example:\n\n%s", customExample)
	fmt.Fprintln(w, "\nKnown formatting tags:")
	for _, tag := range customTags {
		fmt.Fprintf(w, "    %8s: %s\n", tag[0], tag[1])
	}
	fmt.Fprintln(w, "    Any other plugins.global key is a tag too. Use {{ and }} for literal braces.")
}
