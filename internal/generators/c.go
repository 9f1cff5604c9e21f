package generators

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/platform"
	"github.com/scaffold-labs/new/internal/plugin"
)

const (
	cSynopsis      = "c [-l] [-i HEADER...] [-d DEFINE...]"
	headerSynopsis = "header"
)

var (
	cppExtensions    = []string{".cpp", ".cc", ".cxx"}
	headerExtensions = []string{".h", ".hpp", ".h++"}
	cHeaders         = []string{"stdbool.h", "stdio.h", "stdlib.h"}
	cppHeaders       = []string{"iostream"}
)

type cSource struct{ info }

type cArgs struct {
	lib      bool
	includes []string
	defines  []string
}

func newC() *cSource {
	return &cSource{info{
		names:   []string{"c", "cpp", "c++", "cc"},
		exts:    []string{".c", ".cpp", ".cc", ".cxx"},
		version: "0.2.3",
		description: "Creates a basic C or C++ file for small programs.\n" +
			"If no Makefile exists, automakefile creates one with basic targets.",
		opts: plugin.TypeOptions{IgnorePost: []string{"chmodx"}},
	}}
}

func (*cSource) flags(a *cArgs) *pflag.FlagSet {
	fs := newFlags("c")
	fs.BoolVarP(&a.lib, "lib", "l", false, "treat as a library file: write a header, skip automakefile")
	fs.StringArrayVarP(&a.includes, "include", "i", nil, "include a header (#include <name>)")
	fs.StringArrayVarP(&a.defines, "define", "d", nil, "add an #ifndef/#define block for the preprocessor")
	return fs
}

func (g *cSource) Usage() string { return usage(cSynopsis, g.flags(&cArgs{})) }

func (g *cSource) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	var a cArgs
	fs := g.flags(&a)
	if err := parseArgs(fs, cSynopsis, req.Args); err != nil {
		return plugin.Result{}, err
	}

	ext := strings.ToLower(filepath.Ext(req.Path))
	if a.lib || slices.Contains(headerExtensions, ext) {
		path := headerPath(req.Path)
		content, err := renderHeader(req, path)
		if err != nil {
			return plugin.Result{}, err
		}
		req.Logger().Debug("library file mode, switching to header", "path", path)
		return plugin.Redirect(plugin.Redirection{
			Message:    "Switching to header file: " + path,
			Filename:   path,
			Content:    content,
			IgnorePost: []string{"automakefile", "chmodx"},
		}), nil
	}

	defaults, namespace := cHeaders, ""
	if slices.Contains(cppExtensions, ext) {
		defaults, namespace = cppHeaders, "\nusing std::cout;\nusing std::endl;\n"
	}

	var includes []string
	for _, inc := range sortedSet(defaults, a.includes) {
		if platform.Exists(inc) {
			includes = append(includes, fmt.Sprintf("#include %q", inc))
		} else {
			includes = append(includes, "#include <"+inc+">")
		}
	}
	var defines []string
	for _, def := range sortedSet(a.defines) {
		defines = append(defines, fmt.Sprintf("#ifndef %[1]s\n    #define %[1]s\n#endif", def))
	}
	defineBlock := strings.Join(defines, "\n")
	if defineBlock != "" {
		defineBlock = "\n" + defineBlock
	}

	content, err := render("c", struct {
		header
		Includes  string
		Defines   string
		Namespace string
	}{headerFor(req, filepath.Base(req.Path)), strings.Join(includes, "\n"), defineBlock, namespace})
	if err != nil {
		return plugin.Result{}, err
	}
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}
	return plugin.Content(content), nil
}

type cHeader struct{ info }

func newHeader() *cHeader {
	return &cHeader{info{
		names:       []string{"header", "cheader", "cppheader", "c++header"},
		exts:        headerExtensions,
		version:     "0.2.3",
		description: "Creates a basic C or C++ header file.",
		opts:        plugin.TypeOptions{IgnorePost: []string{"chmodx", "automakefile"}},
	}}
}

func (*cHeader) Usage() string { return usage(headerSynopsis, newFlags("header")) }

func (*cHeader) Create(_ context.Context, req plugin.Request) (plugin.Result, error) {
	content, err := renderHeader(req, req.Path)
	if err != nil {
		return plugin.Result{}, err
	}
	return plugin.Content(content), nil
}

func renderHeader(req plugin.Request, path string) (string, error) {
	guard := strings.ToUpper(stem(path)) + "_H"
	guard = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' || r == ' ' {
			return '_'
		}
		return r
	}, guard)
	return render("header", struct {
		header
		Guard string
	}{headerFor(req, filepath.Base(path)), guard})
}

// headerPath strips source extensions from path until a header extension
// remains, adding ".h" when none does.
func headerPath(path string) string {
	for !slices.Contains(headerExtensions, strings.ToLower(filepath.Ext(path))) {
		ext := filepath.Ext(path)
		if ext == "" {
			return path + ".h"
		}
		path = strings.TrimSuffix(path, ext)
	}
	return path
}
