package generators

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/plugin"
)

const goSynopsis = "go [-p NAME]"

type golang struct{ info }

func newGo() *golang {
	return &golang{info{
		names:       []string{"go", "golang"},
		exts:        []string{".go"},
		version:     "0.1.0",
		description: "Creates a Go source file, a small command by default.",
		opts:        plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
	}}
}

func (*golang) flags(pkg *string, def string) *pflag.FlagSet {
	fs := newFlags("go")
	fs.StringVarP(pkg, "package", "p", def, "package clause; anything but main skips the main function")
	return fs
}

func (g *golang) Usage() string {
	var pkg string
	return usage(goSynopsis, g.flags(&pkg, "main"))
}

func (g *golang) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var pkg string
	fs := g.flags(&pkg, req.Settings.StringOr("package", "main"))
	if err := parseArgs(fs, goSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	content, err := render("go", struct {
		header
		Package string
	}{headerFor(req, stem(req.Path)), pkg})
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Content(content), nil
}
