package generators

import (
	"context"
	"strings"

	"github.com/scaffold-labs/new/internal/plugin"
)

const rustSynopsis = "rust [IMPORT...]"

type rust struct{ info }

func newRust() *rust {
	return &rust{info{
		names:       []string{"rust", "rs"},
		exts:        []string{".rs"},
		version:     "0.0.5",
		description: "Creates a small Rust program with optional use declarations.",
		opts:        plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
	}}
}

func (*rust) Usage() string {
	return usage(rustSynopsis, newFlags("rust")) + "\nIMPORT is a qualified name like std::io (':' works as '::').\n"
}

func (*rust) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	fs := newFlags("rust")
	if err := parseArgs(fs, rustSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}
	var imports []string
	for _, name := range fs.Args() {
		imports = append(imports, rustUse(name))
	}
	content, err := render("rust", struct {
		header
		Imports []string
	}{headerFor(req, stem(req.Path)), sortedSet(imports)})
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Content(content), nil
}

// rustUse turns "std:io" or "std::io" into "use std::io;".
func rustUse(name string) string {
	name = strings.ReplaceAll(name, ":", "::")
	for strings.Contains(name, "::::") {
		name = strings.ReplaceAll(name, "::::", "::")
	}
	return "use " + strings.TrimSuffix(name, ";") + ";"
}
