package generators

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/plugin"
)

const bashSynopsis = "bash [-f | -a | -s] [DESCRIPTION...]"

type bash struct{ info }

type bashArgs struct {
	args   bool
	funcs  bool
	simple bool
}

func newBash() *bash {
	return &bash{info{
		names:       []string{"bash", "sh"},
		exts:        []string{".sh", ".bash"},
		version:     "0.3.3",
		description: "A bash script template with only the basics.",
	}}
}

func (*bash) flags(a *bashArgs) *pflag.FlagSet {
	fs := newFlags("bash")
	fs.BoolVarP(&a.args, "args", "a", false, "include basic arg-parsing functions")
	fs.BoolVarP(&a.funcs, "func", "f", false, "include an empty function")
	fs.BoolVarP(&a.simple, "simple", "s", false, "don't use -f or -a, even if set in config")
	return fs
}

func (g *bash) Usage() string { return usage(bashSynopsis, g.flags(&bashArgs{})) }

func (g *bash) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var a bashArgs
	fs := g.flags(&a)
	if err := parseArgs(fs, bashSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}

	desc := strings.Join(fs.Args(), " ")
	if desc == "" {
		desc = "..."
	}
	data := struct {
		header
		Description string
	}{headerFor(req, stem(req.Path)), desc}

	sections := []string{"bash"}
	if !a.simple {
		if a.args {
			sections = append(sections, "bash_args")
		}
		if a.funcs {
			sections = append(sections, "bash_func")
		}
	}
	var parts []string
	for _, name := range sections {
		s, err := render(name, data)
		if err != nil {
			return plugin.Result{}, err
		}
		parts = append(parts, s)
	}
	return plugin.Content(strings.Join(parts, "")), nil
}
