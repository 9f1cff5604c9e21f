package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scaffold-labs/new/internal/config"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
	"github.com/scaffold-labs/new/internal/scaffold"
)

// group is the set of targets handled by one generator.
type group struct {
	entry *registry.Entry
	paths []string
}

func runNew(cmd *cobra.Command, args []string) error {
	names, genArgs := splitDash(args, cmd.ArgsLenAtDash())
	if len(names) == 0 && cmd.ArgsLenAtDash() < 0 && !flagPluginHelp && !flagPluginConfig {
		return cmd.Help()
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	explicit, targets := splitNames(a.reg, names)
	a.log.Debug("parsed arguments", "generator", explicit, "targets", targets, "args", genArgs)

	if flagPluginHelp || flagPluginConfig {
		entry, err := a.lookup(explicit, targets)
		if err != nil {
			return err
		}
		if flagPluginHelp {
			return printGeneratorHelp(cmd.OutOrStdout(), entry)
		}
		return printGeneratorConfig(cmd.OutOrStdout(), a.cfg, entry)
	}

	groups, err := groupTargets(a.resolver(), explicit, targets)
	if err != nil {
		return err
	}

	opts := scaffold.Options{
		Args:       genArgs,
		DryRun:     flagDryRun,
		Overwrite:  flagOverwrite,
		NoOpen:     flagNoOpen,
		Executable: flagExecutable,
	}
	failures := 0
	for _, g := range groups {
		if g.entry.IsPost() {
			return a.runPost(cmd, g.entry, genArgs)
		}
		a.log.Debug("using generator", "generator", g.entry.Name, "paths", g.paths)
		err := a.engine(cmd).Execute(cmd.Context(), scaffold.Job{Entry: g.entry, Paths: g.paths, Options: opts})
		if err != nil {
			if plugin.GetCode(err) == plugin.EPost {
				failures += plugin.ExitCode(err)
				continue
			}
			return err
		}
	}
	if failures > 0 {
		return plugin.PostError(failures)
	}
	return nil
}

// splitDash separates the positional arguments from the generator
// arguments following "--".
func splitDash(args []string, at int) (names, genArgs []string) {
	if at < 0 {
		return args, nil
	}
	return args[:at], args[at:]
}

// splitNames treats the first of several names as the generator name when
// it is one. A single name is always a target; the resolver recognizes
// generator names there itself.
func splitNames(reg *registry.Registry, names []string) (explicit string, targets []string) {
	if len(names) < 2 {
		return "", names
	}
	if _, ok := reg.ByName(names[0], true); ok {
		return names[0], names[1:]
	}
	return "", names
}

// groupTargets resolves every target and groups them by generator, in the
// order the generators were first selected.
func groupTargets(r *registry.Resolver, explicit string, targets []string) ([]*group, error) {
	if len(targets) == 0 {
		targets = []string{""}
	}
	var groups []*group
	index := map[*registry.Entry]*group{}
	for _, target := range targets {
		res, err := r.Resolve(explicit, target, true)
		if err != nil {
			return nil, err
		}
		g, ok := index[res.Entry]
		if !ok {
			g = &group{entry: res.Entry}
			index[res.Entry] = g
			groups = append(groups, g)
		}
		g.paths = append(g.paths, res.Target)
	}
	return groups, nil
}

// lookup finds the generator for -H and -C. Unlike Resolve it never falls
// back to the default generator.
func (a *app) lookup(explicit string, targets []string) (*registry.Entry, error) {
	name := explicit
	if name == "" && len(targets) > 0 {
		name = targets[0]
	}
	if name == "" {
		return nil, &plugin.Error{Code: plugin.EUsage, Msg: "a generator name or file name is required"}
	}
	if e, ok := a.reg.ByName(name, true); ok {
		return e, nil
	}
	if e, ok := a.reg.ByExtension(name); ok {
		return e, nil
	}
	return nil, plugin.NotFound("not a generator name or known file type: " + name)
}

func (a *app) runPost(cmd *cobra.Command, e *registry.Entry, args []string) error {
	r, ok := e.Post.(plugin.Runner)
	if !ok {
		return &plugin.Error{Code: plugin.EUsage, Generator: e.Name, Msg: "post-processing generator can't be run as a command"}
	}
	a.log.Debug("running post-processing generator as command", "generator", e.Name)
	req := plugin.Request{
		Args:     args,
		Settings: a.cfg.Settings(e.Name),
		Log:      a.log.With("generator", e.Name),
		Out:      cmd.OutOrStdout(),
	}
	code, err := r.Run(cmd.Context(), req)
	if err != nil {
		if _, ok := plugin.AsAbort(err); ok {
			return err
		}
		return fmt.Errorf("running %s: %w", e.Name, err)
	}
	if code != 0 {
		return plugin.AbortCode(code, "")
	}
	return nil
}

func printGeneratorHelp(w io.Writer, e *registry.Entry) error {
	gen := e.Generator()
	title := e.Name
	if v := plugin.Version(gen); v != "" {
		title += " v. " + v
	}
	fmt.Fprintf(w, "%s (%s)\n", title, e.Role.Label())
	if e.Type != nil {
		fmt.Fprintf(w, "%12s: %s\n", "aliases", strings.Join(e.Type.Names(), ", "))
		exts := "None"
		if len(e.Type.Extensions()) > 0 {
			exts = strings.Join(e.Type.Extensions(), ", ")
		}
		fmt.Fprintf(w, "%12s: %s\n", "extensions", exts)
	}
	if desc := plugin.Description(gen); desc != "" {
		fmt.Fprintf(w, "%12s: %s\n", "description", strings.ReplaceAll(desc, "\n", "\n"+strings.Repeat(" ", 14)))
	}
	if h, ok := gen.(plugin.Helper); ok {
		fmt.Fprintf(w, "\n%s", h.Usage())
	} else {
		fmt.Fprintln(w, "\nNo arguments for this generator.")
	}
	return nil
}

func printGeneratorConfig(w io.Writer, cfg *config.Config, e *registry.Entry) error {
	section := cfg.Section(e.Name)
	if len(section) == 0 {
		fmt.Fprintf(w, "No config for: %s\n", e.Name)
		return nil
	}
	fmt.Fprintf(w, "Config for %s (%s):\n", e.Name, cfg.Path())
	return config.DumpValue(w, map[string]any(section), false)
}
