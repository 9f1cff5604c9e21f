package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

var (
	listRoleFilter string
	listJSON       bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"plugins"},
	Short:   "List available generators",
	Long:    `List the custom, file-type, post-processing and deferred generators that are loaded.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listRoleFilter, "role", "", "Filter by role (custom, types, post, deferred)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a loaded generator for display.
type listEntry struct {
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Extensions  []string `json:"extensions,omitempty"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	entries, err := listEntries(a.reg, listRoleFilter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No generators loaded.")
		return nil
	}
	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

// listEntries returns the public generators of reg, grouped by role.
func listEntries(reg *registry.Registry, role string) ([]listEntry, error) {
	roles := registry.Roles
	if role != "" {
		roles = nil
		for _, r := range registry.Roles {
			if string(r) == role {
				roles = []registry.Role{r}
			}
		}
		if roles == nil {
			return nil, &plugin.Error{Code: plugin.EUsage, Msg: fmt.Sprintf("unknown role %q", role)}
		}
	}

	var entries []listEntry
	for _, r := range roles {
		for _, e := range reg.Entries(r) {
			gen := e.Generator()
			entry := listEntry{
				Role:        string(e.Role),
				Name:        e.Name,
				Version:     plugin.Version(gen),
				Description: plugin.Description(gen),
			}
			if e.Type != nil {
				if e.Type.Options().Private {
					continue
				}
				entry.Aliases = e.Type.Names()[1:]
				entry.Extensions = e.Type.Extensions()
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ROLE\tNAME\tALIASES\tEXTENSIONS\tDESCRIPTION")
	for _, e := range entries {
		desc, _, _ := strings.Cut(e.Description, "\n")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Role, e.Name, orDash(e.Aliases), orDash(e.Extensions), desc)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func orDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ",")
}
