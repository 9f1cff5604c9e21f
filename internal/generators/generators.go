package generators

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/pflag"

	"github.com/scaffold-labs/new/internal/custom"
	"github.com/scaffold-labs/new/internal/download"
	"github.com/scaffold-labs/new/internal/plugin"
	"github.com/scaffold-labs/new/internal/registry"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// now is replaced in tests.
var now = time.Now

// Options are the collaborators shared by the built-in generators.
type Options struct {
	// Client downloads jQuery. Nil uses code.jquery.com.
	Client *download.Client
	// Confirm asks a yes/no question. Nil answers yes.
	Confirm func(question string) (bool, error)
}

// Builtins returns the built-in generator modules.
func Builtins(opts Options) []registry.Module {
	if opts.Client == nil {
		opts.Client = download.New()
	}
	if opts.Confirm == nil {
		opts.Confirm = func(string) (bool, error) { return true, nil }
	}
	return []registry.Module{
		registry.Static("text", newText()),
		registry.Static("bash", newBash()),
		registry.Static("python", newPython()),
		registry.Static("golang", newGo()),
		registry.Static("c", newC(), newHeader()),
		registry.Static("html", newHTML(), newJQuery(opts.Client)),
		registry.Static("makefile", newMakefile(opts.Confirm), newAutoMakefile()),
		registry.Static("js", newJS()),
		registry.Static("rust", newRust()),
		registry.Static("chmodx", newChmodx()),
		registry.Static("jquerydl", newJQueryDL(opts.Client)),
		registry.Static("open", newOpen()),
	}
}

// info carries the static metadata of a file-type generator.
type info struct {
	names       []string
	exts        []string
	opts        plugin.TypeOptions
	version     string
	description string
}

func (i *info) Names() []string             { return i.names }
func (i *info) Extensions() []string        { return i.exts }
func (i *info) Options() plugin.TypeOptions { return i.opts }
func (i *info) Version() string             { return i.version }
func (i *info) Description() string         { return i.description }

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return buf.String(), nil
}

// header holds the values every file header uses.
type header struct {
	Name    string
	Author  string
	Date    string
	Version string
}

func headerFor(req plugin.Request, name string) header {
	return header{
		Name:    name,
		Author:  authorLine(req.Settings),
		Date:    date(),
		Version: req.Settings.StringOr("default_version", custom.DefaultVersion),
	}
}

// authorLine renders the author as "-Name " or nothing.
func authorLine(s plugin.Settings) string {
	if a := s.String("author"); a != "" {
		return "-" + a + " "
	}
	return ""
}

func date() string {
	return now().Format("01-02-2006")
}

// stem returns the base name of path without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// parseArgs parses args into fs. A bad argument aborts the run with the
// generator's usage.
func parseArgs(fs *pflag.FlagSet, synopsis string, args []string) error {
	if err := fs.Parse(args); err != nil {
		return plugin.Abortf("%s: %v\n\n%s", fs.Name(), err, usage(synopsis, fs))
	}
	return nil
}

// usage formats a generator usage string from its synopsis and flags.
func usage(synopsis string, fs *pflag.FlagSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n    %s\n", synopsis)
	if flags := fs.FlagUsages(); flags != "" {
		fmt.Fprintf(&b, "\nOptions:\n%s", flags)
	}
	return b.String()
}

// sortedSet returns the unique non-empty values of lists, sorted.
func sortedSet(lists ...[]string) []string {
	set := plugin.NewSet()
	for _, list := range lists {
		for _, v := range list {
			if v = strings.TrimSpace(v); v != "" {
				set.Add(v)
			}
		}
	}
	return set.Sorted()
}
