package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/branding"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

var (
	versionShort      bool
	versionJSON       bool
	versionGenerators bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionGenerators, "generators", false, "List the versions of the loaded generators")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionGenerators {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			return printGeneratorVersions(cmd, a.reg)
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		return nil
	},
}

type generatorVersion struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Version string `json:"version"`

	semver *semver.Version
}

// generatorVersions lists every generator, newest version first. Versions
// that are not semver sort last, and ties sort by name.
func generatorVersions(reg *registry.Registry) []generatorVersion {
	var list []generatorVersion
	for _, role := range registry.Roles {
		for _, e := range reg.Entries(role) {
			gv := generatorVersion{Role: string(role), Name: e.Name, Version: plugin.Version(e.Generator())}
			if v, err := semver.NewVersion(gv.Version); err == nil {
				gv.semver = v
			}
			list = append(list, gv)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].semver, list[j].semver
		switch {
		case a != nil && b != nil && !a.Equal(b):
			return a.GreaterThan(b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func printGeneratorVersions(cmd *cobra.Command, reg *registry.Registry) error {
	list := generatorVersions(reg)
	if versionJSON {
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling generator versions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLE\tVERSION")
	for _, gv := range list {
		version := gv.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", gv.Name, gv.Role, version)
	}
	return w.Flush()
}
