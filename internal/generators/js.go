package generators

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/plugin"
)

const jsSynopsis = "js [-s]"

type js struct{ info }

func newJS() *js {
	return &js{info{
		names:       []string{"js", "node", "nodejs"},
		exts:        []string{".js"},
		version:     "0.0.9",
		description: "Creates a node script, or only a comment header with -s.",
	}}
}

func (*js) flags(short *bool) *pflag.FlagSet {
	fs := newFlags("js")
	fs.BoolVarP(short, "short", "s", false, "only use the comment header")
	return fs
}

func (g *js) Usage() string {
	var b bool
	return usage(jsSynopsis, g.flags(&b))
}

func (g *js) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var short bool
	if err := parseArgs(g.flags(&short), jsSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	content, err := render("js", struct {
		header
		Short bool
	}{headerFor(req, stem(req.Path)), short})
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Content(content), nil
}
